package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/texfolio/stockroom/internal/agent"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/agent/ops"
	"github.com/texfolio/stockroom/internal/auth"
	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/http/rate_limiter"
	"github.com/texfolio/stockroom/internal/llm"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"

	httprouter "github.com/texfolio/stockroom/internal/http"
)

// env wires the router over fresh in-memory repositories. The handler
// package holds its dependencies in package globals, so tests must not
// run in parallel.
type env struct {
	products  *repo.InMemoryProductRepository
	sales     *repo.InMemorySaleRepository
	movements *repo.InMemoryMovementRepository
	operators *repo.InMemoryOperatorRepository

	router http.Handler
	token  string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		products:  repo.NewInMemoryProductRepository(),
		movements: repo.NewInMemoryMovementRepository(),
		operators: repo.NewInMemoryOperatorRepository(),
	}
	e.sales = repo.NewInMemorySaleRepository(e.products, e.movements)
	analytics := repo.NewInMemoryAnalyticsRepository(e.products, e.sales)

	handlers.SetProductRepo(e.products)
	handlers.SetSaleRepo(e.sales)
	handlers.SetMovementRepo(e.movements)
	handlers.SetAnalyticsRepo(analytics)
	handlers.SetAuthService(auth.NewService(e.operators))
	handlers.SetAssistant(nil)
	handlers.SetImageCache(nil)
	handlers.SetAssetStore(nil)

	auth.Configure("test-secret", 15*time.Minute)
	op, err := e.operators.Create(context.Background(), models.Operator{
		Username: "tester", PasswordHash: "irrelevant",
	})
	if err != nil {
		t.Fatalf("seeding operator: %v", err)
	}
	e.token, err = auth.GenerateToken(op)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	e.router = httprouter.NewRouter(t.TempDir(), rate_limiter.New(rate.Limit(1000), 1000))
	return e
}

// withAssistant plugs in an Assistant over a scripted reasoning client
// and the full operation catalog against this env's repositories.
func (e *env) withAssistant(t *testing.T, client llm.Client, images *imagecache.Cache) {
	t.Helper()

	analytics := repo.NewInMemoryAnalyticsRepository(e.products, e.sales)
	executor := ops.NewExecutor(ops.Config{
		Products:  e.products,
		Sales:     e.sales,
		Analytics: analytics,
		Movements: e.movements,
		Images:    images,
	})
	registry, err := executor.Catalog()
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	handlers.SetAssistant(agent.New(client, registry, images, nil))
	handlers.SetImageCache(images)
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *env) seedProduct(t *testing.T, p models.Product) models.Product {
	t.Helper()
	created, err := e.products.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return created
}

// scriptedClient is a canned reasoning service for handler tests.
type scriptedClient struct {
	plan    llm.PlanResult
	planErr error
	summary string
}

func (s *scriptedClient) Plan(context.Context, llm.PlanRequest) (llm.PlanResult, error) {
	return s.plan, s.planErr
}

func (s *scriptedClient) Summarize(context.Context, []llm.Message) (string, error) {
	return s.summary, nil
}
