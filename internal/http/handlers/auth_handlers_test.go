package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/texfolio/stockroom/internal/http/handlers"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/register", handlers.UserLogin{
		Username: "weaver", Password: "s3cret-pw",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if registered := decode[handlers.RegisterResult](t, rec); registered.Token == "" {
		t.Error("expected a token on registration")
	}

	rec = e.do(t, http.MethodPost, "/login", handlers.UserLogin{
		Username: "weaver", Password: "s3cret-pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if login := decode[handlers.LoginResult](t, rec); login.Token == "" {
		t.Error("expected a token on login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)

	if rec := e.do(t, http.MethodPost, "/register", handlers.UserLogin{
		Username: "weaver", Password: "s3cret-pw",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("registering: got %d", rec.Code)
	}

	rec := e.do(t, http.MethodPost, "/login", handlers.UserLogin{
		Username: "weaver", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterRejectsShortCredentials(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/register", handlers.UserLogin{
		Username: "ab", Password: "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", rec.Code)
	}
}
