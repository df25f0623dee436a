package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/http/rate_limiter"
)

// NewRouter wires every route. Mutating and assistant routes sit behind
// the bearer-token middleware; the assistant additionally gets a
// per-client rate limit since each turn fans out to the reasoning
// service.
func NewRouter(assetDir string, assistantLimiter *rate_limiter.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/login", handlers.LoginHandler)
	r.Post("/register", handlers.RegisterHandler)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetDir))))

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware)

		pr.Post("/products", handlers.CreateProductHandler)
		pr.Get("/products", handlers.GetProductsHandler)
		pr.Post("/products/import", handlers.ImportProductsHandler)
		pr.Put("/products/quantity/{identifier}", handlers.AdjustQuantityHandler)
		pr.Get("/products/{identifier}", handlers.GetProductHandler)
		pr.Put("/products/{identifier}", handlers.UpdateProductHandler)
		pr.Delete("/products/{identifier}", handlers.DeleteProductHandler)
		pr.Get("/products/{id}/movements", handlers.GetMovementsHandler)

		pr.Post("/sales", handlers.CreateSaleHandler)
		pr.Get("/sales", handlers.GetSalesHandler)
		pr.Delete("/sales/{id}", handlers.DeleteSaleHandler)

		pr.Get("/analytics/summary", handlers.InventorySummaryHandler)
		pr.Get("/analytics/profit", handlers.ProfitStatsHandler)
		pr.Get("/analytics/monthly-profits", handlers.MonthlyProfitsHandler)
		pr.Get("/analytics/top-products", handlers.TopProductsHandler)
		pr.Get("/analytics/low-stock", handlers.LowStockHandler)
		pr.Get("/analytics/trends", handlers.SalesTrendsHandler)

		pr.Group(func(ar chi.Router) {
			ar.Use(RateLimitMiddleware(assistantLimiter))
			ar.Post("/assistant/message", handlers.AssistantMessageHandler)
			ar.Post("/assistant/image", handlers.AssistantImageHandler)
		})
	})

	return r
}
