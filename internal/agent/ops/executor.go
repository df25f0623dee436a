// Package ops implements the catalog operations against the domain
// repositories.
package ops

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent/catalog"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/agent/resolver"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

// Defaults applied when the planning round leaves a knob out.
const (
	defaultPeriod       = "month"
	defaultHistoryLimit = 10
	defaultRecentLimit  = 5
	defaultMonths       = 6
	defaultTopLimit     = 5
	skuRetryAttempts    = 5
)

// Executor carries the dependencies shared by every operation.
type Executor struct {
	products  repo.ProductRepository
	sales     repo.SaleRepository
	analytics repo.AnalyticsRepository
	movements repo.MovementRepository
	resolve   *resolver.Resolver
	images    *imagecache.Cache
	logger    *zap.Logger

	lowStockThreshold int
	now               func() time.Time
}

// Config wires an Executor. Images may be nil when image upload is
// disabled; LowStockThreshold falls back to 10.
type Config struct {
	Products          repo.ProductRepository
	Sales             repo.SaleRepository
	Analytics         repo.AnalyticsRepository
	Movements         repo.MovementRepository
	Images            *imagecache.Cache
	Logger            *zap.Logger
	LowStockThreshold int
	// Now overrides the clock in tests.
	Now func() time.Time
}

func NewExecutor(cfg Config) *Executor {
	e := &Executor{
		products:          cfg.Products,
		sales:             cfg.Sales,
		analytics:         cfg.Analytics,
		movements:         cfg.Movements,
		resolve:           resolver.New(cfg.Products),
		images:            cfg.Images,
		logger:            cfg.Logger,
		lowStockThreshold: cfg.LowStockThreshold,
		now:               cfg.Now,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.lowStockThreshold <= 0 {
		e.lowStockThreshold = 10
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// productView is the product payload shape returned to the reasoning
// service, with the derived stock value attached.
type productView struct {
	models.Product
	TotalValue float64 `json:"total_value"`
}

func viewOf(p models.Product) productView {
	return productView{Product: p, TotalValue: p.TotalValue()}
}

func viewsOf(products []models.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, viewOf(p))
	}
	return out
}

// saleView attaches the derived money figures to a sale.
type saleView struct {
	models.Sale
	TotalSaleValue float64 `json:"total_sale_value"`
	Profit         float64 `json:"profit"`
	Margin         float64 `json:"margin"`
}

func saleViewOf(s models.Sale) saleView {
	return saleView{Sale: s, TotalSaleValue: s.Revenue(), Profit: s.Profit(), Margin: s.Margin()}
}

// failure maps domain errors onto result codes. Resolution failures
// carry their suggestions through.
func failure(err error) catalog.Result {
	var notFound *resolver.NotFoundError
	if errors.As(err, &notFound) {
		return catalog.FailWithSuggestions(catalog.CodeNotFound, err.Error(), notFound.Suggestions)
	}
	var ambiguous *resolver.AmbiguousError
	if errors.As(err, &ambiguous) {
		return catalog.FailWithSuggestions(catalog.CodeNotFound, err.Error(), ambiguous.Suggestions)
	}

	switch {
	case errors.Is(err, repo.ErrProductNotFound), errors.Is(err, repo.ErrSaleNotFound):
		return catalog.Fail(catalog.CodeNotFound, err.Error())
	case errors.Is(err, repo.ErrDuplicateSKU):
		return catalog.Fail(catalog.CodeDuplicateKey, err.Error())
	case errors.Is(err, repo.ErrInsufficientStock):
		return catalog.Fail(catalog.CodeInsufficientStock, err.Error())
	case errors.Is(err, repo.ErrSKUMismatch):
		return catalog.Fail(catalog.CodeValidation, err.Error())
	default:
		return catalog.Fail(catalog.CodeExternalService, err.Error())
	}
}

// parseDay accepts RFC 3339 timestamps or bare dates.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q, want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func orDefaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
