package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

func seedSales(t *testing.T, e *env) {
	t.Helper()
	created := e.seedProduct(t, models.Product{
		Name: "Silk Saree", SKU: "SS-000001", Category: models.CategorySarees,
		Quantity: 100, Price: 100, Cost: 60,
	})
	e.seedProduct(t, models.Product{
		Name: "Towel", SKU: "T-000002", Category: models.CategoryTowels, Quantity: 3, Price: 10, Cost: 4,
	})

	now := time.Now().UTC()
	for _, daysAgo := range []int{1, 2, 40} {
		if _, err := e.sales.RecordSale(context.Background(), repo.RecordSaleParams{
			ProductID: created.ID, SKU: created.SKU, Quantity: 1, SellPrice: 100,
			SoldAt: now.AddDate(0, 0, -daysAgo),
		}); err != nil {
			t.Fatalf("seeding sale: %v", err)
		}
	}
}

func TestInventorySummary(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	summary := decode[repo.InventorySummary](t, rec)
	if summary.TotalProducts != 2 {
		t.Errorf("expected 2 products, got %d", summary.TotalProducts)
	}
	if summary.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", summary.LowStockCount)
	}
}

func TestProfitStats(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/profit?period=week", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload := decode[map[string]any](t, rec)
	if got, _ := payload["sales_count"].(float64); got != 2 {
		t.Errorf("expected 2 sales this week, got %v", payload["sales_count"])
	}
	if got, _ := payload["total_profit"].(float64); got != 80 {
		t.Errorf("expected profit 80, got %v", payload["total_profit"])
	}
	if _, ok := payload["profit_change_pct"]; !ok {
		t.Error("expected comparison against the previous window")
	}
}

func TestProfitStatsAllPeriodHasNoComparison(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/profit?period=all", nil)
	payload := decode[map[string]any](t, rec)
	if got, _ := payload["sales_count"].(float64); got != 3 {
		t.Errorf("expected all 3 sales, got %v", payload["sales_count"])
	}
	if _, ok := payload["profit_change_pct"]; ok {
		t.Error("the unbounded period has no preceding window to compare against")
	}
}

func TestProfitStatsUnknownPeriod(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/analytics/profit?period=decade", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTopProducts(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/top-products?period=week&sort_by=revenue", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	top := decode[[]repo.TopProduct](t, rec)
	if len(top) != 1 || top[0].SKU != "SS-000001" {
		t.Errorf("unexpected ranking %+v", top)
	}
	if top[0].Revenue != 200 {
		t.Errorf("expected revenue 200, got %v", top[0].Revenue)
	}

	rec = e.do(t, http.MethodGet, "/analytics/top-products?sort_by=alphabetical", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sort, got %d", rec.Code)
	}
}

func TestLowStock(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/low-stock", nil)
	result := decode[handlers.ProductsSearchResult](t, rec)
	if result.Meta.TotalCount != 1 || result.Data[0].SKU != "T-000002" {
		t.Errorf("unexpected low-stock result %+v", result)
	}

	// A higher threshold catches the saree's 100 units too.
	rec = e.do(t, http.MethodGet, "/analytics/low-stock?threshold=500", nil)
	result = decode[handlers.ProductsSearchResult](t, rec)
	if result.Meta.TotalCount != 2 {
		t.Errorf("expected both products under 500, got %+v", result.Meta)
	}
}

func TestSalesTrends(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/trends?period=week", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload := decode[map[string]any](t, rec)
	if got, _ := payload["total_sales"].(float64); got != 2 {
		t.Errorf("expected 2 sales this week, got %v", payload["total_sales"])
	}
	if trend, _ := payload["trend"].(string); trend != "rising" {
		t.Errorf("expected rising trend, got %v", payload["trend"])
	}
}

func TestSalesTrendsRejectsPointPeriods(t *testing.T) {
	e := newEnv(t)

	for _, period := range []string{"today", "all"} {
		rec := e.do(t, http.MethodGet, "/analytics/trends?period="+period, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("period %q: expected 400, got %d", period, rec.Code)
		}
	}
}

func TestMonthlyProfits(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)

	rec := e.do(t, http.MethodGet, "/analytics/monthly-profits?months=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	series := decode[[]repo.MonthlyProfit](t, rec)
	if len(series) == 0 || len(series) > 3 {
		t.Fatalf("expected at most 3 populated months, got %+v", series)
	}
	var totalProfit float64
	for _, m := range series {
		totalProfit += m.Profit
	}
	if totalProfit != 120 { // 3 sales at 40 profit each
		t.Errorf("expected 120 profit across the series, got %v", totalProfit)
	}

	rec = e.do(t, http.MethodGet, "/analytics/monthly-profits?months=99", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range months, got %d", rec.Code)
	}
}
