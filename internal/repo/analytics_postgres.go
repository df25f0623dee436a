package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func windowConditions(from, to time.Time) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if !from.IsZero() {
		query += fmt.Sprintf(" AND sold_at >= $%d", argIdx)
		args = append(args, from)
		argIdx++
	}
	if !to.IsZero() {
		query += fmt.Sprintf(" AND sold_at < $%d", argIdx)
		args = append(args, to)
		argIdx++
	}
	return query, args, argIdx
}

func (r *PostgresAnalyticsRepository) ProfitStats(ctx context.Context, from, to time.Time) (ProfitStats, error) {
	conditions, args, _ := windowConditions(from, to)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT COALESCE(SUM(quantity * sell_price), 0),
		COALESCE(SUM(quantity * unit_cost), 0),
		COUNT(*)
		FROM sales WHERE 1=1` + conditions

	var stats ProfitStats
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Revenue, &stats.Cost, &stats.SalesCount); err != nil {
		return ProfitStats{}, err
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

func (r *PostgresAnalyticsRepository) MonthlyProfits(ctx context.Context, months int) ([]MonthlyProfit, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	query := `SELECT to_char(date_trunc('month', sold_at), 'YYYY-MM') AS month,
		COALESCE(SUM(quantity * sell_price), 0),
		COALESCE(SUM(quantity * (sell_price - unit_cost)), 0)
		FROM sales WHERE sold_at >= $1
		GROUP BY 1 ORDER BY 1`

	rows, err := r.db.QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []MonthlyProfit
	for rows.Next() {
		var m MonthlyProfit
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Profit); err != nil {
			return nil, err
		}
		series = append(series, m)
	}
	return series, rows.Err()
}

func (r *PostgresAnalyticsRepository) TopProducts(ctx context.Context, from, to time.Time, sortBy string, limit int) ([]TopProduct, error) {
	conditions, args, argIdx := windowConditions(from, to)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var orderExpr string
	switch sortBy {
	case TopByQuantity:
		orderExpr = "quantity_sold"
	case TopByProfit:
		orderExpr = "profit"
	default:
		orderExpr = "revenue"
	}

	query := fmt.Sprintf(`SELECT product_id, product_name, sku,
		COALESCE(SUM(quantity * sell_price), 0) AS revenue,
		COALESCE(SUM(quantity), 0) AS quantity_sold,
		COALESCE(SUM(quantity * (sell_price - unit_cost)), 0) AS profit
		FROM sales WHERE 1=1%s
		GROUP BY product_id, product_name, sku
		ORDER BY %s DESC LIMIT $%d`, conditions, orderExpr, argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var t TopProduct
		if err := rows.Scan(&t.ProductID, &t.Name, &t.SKU, &t.Revenue, &t.QuantitySold, &t.Profit); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *PostgresAnalyticsRepository) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	conditions, args, _ := windowConditions(from, to)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT date_trunc('day', sold_at) AS day,
		COUNT(*), COALESCE(SUM(quantity * sell_price), 0)
		FROM sales WHERE 1=1` + conditions + `
		GROUP BY 1 ORDER BY 1`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Day, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *PostgresAnalyticsRepository) InventorySummary(ctx context.Context, lowStockThreshold int) (InventorySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s InventorySummary
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(quantity), 0),
		COALESCE(SUM(quantity * price), 0)
		FROM products`).Scan(&s.TotalProducts, &s.TotalQuantity, &s.TotalValue)
	if err != nil {
		return InventorySummary{}, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE quantity < $1`, lowStockThreshold).Scan(&s.LowStockCount)
	if err != nil {
		return InventorySummary{}, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return InventorySummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Products, &c.Quantity); err != nil {
			return InventorySummary{}, err
		}
		s.ByCategory = append(s.ByCategory, c)
	}
	return s, rows.Err()
}
