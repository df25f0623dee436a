package http

import (
	"context"
	"net"
	"net/http"

	"github.com/texfolio/stockroom/internal/auth"
	"github.com/texfolio/stockroom/internal/http/rate_limiter"
)

type contextKey string

const operatorIDKey = contextKey("operator_id")

// AuthMiddleware rejects requests without a valid bearer token and
// stores the operator id on the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		operatorID := 0
		if sub, ok := claims["sub"].(float64); ok {
			operatorID = int(sub)
		}
		ctx := context.WithValue(r.Context(), operatorIDKey, operatorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOperatorID returns the authenticated operator's id, or 0.
func GetOperatorID(r *http.Request) int {
	if val, ok := r.Context().Value(operatorIDKey).(int); ok {
		return val
	}
	return 0
}

// RateLimitMiddleware throttles by remote IP using the given limiter.
func RateLimitMiddleware(limiter *rate_limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.Allow(ip) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
