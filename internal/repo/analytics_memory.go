package repo

import (
	"context"
	"sort"
	"time"
)

// InMemoryAnalyticsRepository computes the aggregations over the in-memory
// product and sale repositories, mirroring the Postgres queries.
type InMemoryAnalyticsRepository struct {
	products *InMemoryProductRepository
	sales    *InMemorySaleRepository
}

func NewInMemoryAnalyticsRepository(products *InMemoryProductRepository, sales *InMemorySaleRepository) *InMemoryAnalyticsRepository {
	return &InMemoryAnalyticsRepository{products: products, sales: sales}
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func (r *InMemoryAnalyticsRepository) ProfitStats(_ context.Context, from, to time.Time) (ProfitStats, error) {
	var stats ProfitStats
	for _, s := range r.sales.All() {
		if !inWindow(s.SoldAt, from, to) {
			continue
		}
		stats.Revenue += s.Revenue()
		stats.Cost += s.TotalCost()
		stats.SalesCount++
	}
	stats.Profit = stats.Revenue - stats.Cost
	if stats.SalesCount > 0 {
		stats.AverageProfit = stats.Profit / float64(stats.SalesCount)
	}
	if stats.Revenue > 0 {
		stats.ProfitMargin = stats.Profit / stats.Revenue * 100
	}
	return stats, nil
}

func (r *InMemoryAnalyticsRepository) MonthlyProfits(_ context.Context, months int) ([]MonthlyProfit, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	byMonth := map[string]*MonthlyProfit{}
	for _, s := range r.sales.All() {
		if s.SoldAt.Before(from) {
			continue
		}
		key := s.SoldAt.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyProfit{Month: key}
			byMonth[key] = m
		}
		m.Revenue += s.Revenue()
		m.Profit += s.Profit()
	}

	series := make([]MonthlyProfit, 0, len(byMonth))
	for _, m := range byMonth {
		series = append(series, *m)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series, nil
}

func (r *InMemoryAnalyticsRepository) TopProducts(_ context.Context, from, to time.Time, sortBy string, limit int) ([]TopProduct, error) {
	byProduct := map[int]*TopProduct{}
	for _, s := range r.sales.All() {
		if !inWindow(s.SoldAt, from, to) {
			continue
		}
		t, ok := byProduct[s.ProductID]
		if !ok {
			t = &TopProduct{ProductID: s.ProductID, Name: s.ProductName, SKU: s.SKU}
			byProduct[s.ProductID] = t
		}
		t.Revenue += s.Revenue()
		t.QuantitySold += s.Quantity
		t.Profit += s.Profit()
	}

	top := make([]TopProduct, 0, len(byProduct))
	for _, t := range byProduct {
		top = append(top, *t)
	}
	sort.Slice(top, func(i, j int) bool {
		switch sortBy {
		case TopByQuantity:
			return top[i].QuantitySold > top[j].QuantitySold
		case TopByProfit:
			return top[i].Profit > top[j].Profit
		default:
			return top[i].Revenue > top[j].Revenue
		}
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (r *InMemoryAnalyticsRepository) DailySales(_ context.Context, from, to time.Time) ([]DailySales, error) {
	byDay := map[string]*DailySales{}
	for _, s := range r.sales.All() {
		if !inWindow(s.SoldAt, from, to) {
			continue
		}
		day := s.SoldAt.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &DailySales{Day: day}
			byDay[key] = d
		}
		d.Count++
		d.Revenue += s.Revenue()
	}

	days := make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days, nil
}

func (r *InMemoryAnalyticsRepository) InventorySummary(ctx context.Context, lowStockThreshold int) (InventorySummary, error) {
	products, err := r.products.GetAll(ctx)
	if err != nil {
		return InventorySummary{}, err
	}

	var s InventorySummary
	byCategory := map[string]*CategoryCount{}
	for _, p := range products {
		s.TotalProducts++
		s.TotalQuantity += p.Quantity
		s.TotalValue += p.TotalValue()
		if p.Quantity < lowStockThreshold {
			s.LowStockCount++
		}
		c, ok := byCategory[p.Category]
		if !ok {
			c = &CategoryCount{Category: p.Category}
			byCategory[p.Category] = c
		}
		c.Products++
		c.Quantity += p.Quantity
	}
	for _, c := range byCategory {
		s.ByCategory = append(s.ByCategory, *c)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool { return s.ByCategory[i].Category < s.ByCategory[j].Category })
	return s, nil
}
