package repo

import (
	"context"
	"time"
)

// Top-product rankings.
const (
	TopByRevenue  = "revenue"
	TopByQuantity = "quantity"
	TopByProfit   = "profit"
)

// ProfitStats aggregates the sales inside one period window.
type ProfitStats struct {
	Revenue       float64 `json:"total_revenue"`
	Cost          float64 `json:"total_cost"`
	Profit        float64 `json:"total_profit"`
	SalesCount    int     `json:"sales_count"`
	AverageProfit float64 `json:"average_profit"`
	ProfitMargin  float64 `json:"profit_margin"`
}

// MonthlyProfit is one month's slice of the profit series.
type MonthlyProfit struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// TopProduct is one row of a top-N ranking.
type TopProduct struct {
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Revenue      float64 `json:"revenue"`
	QuantitySold int     `json:"quantity_sold"`
	Profit       float64 `json:"profit"`
}

// DailySales is the sale count and revenue of one calendar day.
type DailySales struct {
	Day     time.Time `json:"day"`
	Count   int       `json:"count"`
	Revenue float64   `json:"revenue"`
}

// CategoryCount is a per-category product breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Products int    `json:"products"`
	Quantity int    `json:"quantity"`
}

// InventorySummary is the dashboard view over the whole inventory.
type InventorySummary struct {
	TotalProducts int             `json:"total_products"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    float64         `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
	ByCategory    []CategoryCount `json:"by_category"`
}

// AnalyticsRepository serves the pure-read aggregations. Zero from/to
// times mean an unbounded window.
type AnalyticsRepository interface {
	ProfitStats(ctx context.Context, from, to time.Time) (ProfitStats, error)
	MonthlyProfits(ctx context.Context, months int) ([]MonthlyProfit, error)
	TopProducts(ctx context.Context, from, to time.Time, sortBy string, limit int) ([]TopProduct, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	InventorySummary(ctx context.Context, lowStockThreshold int) (InventorySummary, error)
}
