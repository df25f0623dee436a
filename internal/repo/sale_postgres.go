package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/texfolio/stockroom/internal/models"
)

// PostgresSaleRepository implements SaleRepository over a single database
// transaction per compound mutation.
type PostgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) *PostgresSaleRepository {
	return &PostgresSaleRepository{db: db}
}

func (r *PostgresSaleRepository) RecordSale(ctx context.Context, params RecordSaleParams) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if params.SoldAt.IsZero() {
		params.SoldAt = time.Now().UTC()
	}

	var sale models.Sale
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			name     string
			sku      string
			quantity int
			cost     float64
		)
		row := tx.QueryRowContext(ctx,
			`SELECT name, sku, quantity, cost FROM products WHERE id = $1 FOR UPDATE`, params.ProductID)
		if err := row.Scan(&name, &sku, &quantity, &cost); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return err
		}
		if sku != params.SKU {
			return ErrSKUMismatch
		}

		// Final quantity check inside the atomic unit: the conditional
		// update is the compare-and-swap that stops concurrent over-selling.
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $1, updated_at = $2 WHERE id = $3 AND quantity >= $1`,
			params.Quantity, time.Now().UTC(), params.ProductID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrInsufficientStock
		}

		sale = models.Sale{
			ProductID:   params.ProductID,
			ProductName: name,
			SKU:         sku,
			Quantity:    params.Quantity,
			SellPrice:   params.SellPrice,
			UnitCost:    cost,
			SoldAt:      params.SoldAt,
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO sales (product_id, product_name, sku, quantity, sell_price, unit_cost, sold_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			sale.ProductID, sale.ProductName, sale.SKU, sale.Quantity, sale.SellPrice, sale.UnitCost, sale.SoldAt,
		).Scan(&sale.ID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO movements (product_id, delta, reason, created_at) VALUES ($1, $2, $3, $4)`,
			sale.ProductID, -sale.Quantity, models.MovementSale, time.Now().UTC())
		return err
	})
	if err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

func (r *PostgresSaleRepository) DeleteSale(ctx context.Context, id int) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sale models.Sale
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT id, product_id, product_name, sku, quantity, sell_price, unit_cost, sold_at
			 FROM sales WHERE id = $1 FOR UPDATE`, id)
		if err := row.Scan(&sale.ID, &sale.ProductID, &sale.ProductName, &sale.SKU,
			&sale.Quantity, &sale.SellPrice, &sale.UnitCost, &sale.SoldAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSaleNotFound
			}
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity + $1, updated_at = $2 WHERE id = $3`,
			sale.Quantity, time.Now().UTC(), sale.ProductID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// The depleted product no longer exists; there is nothing to
			// restore the quantity to, so the deletion aborts.
			return ErrProductNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO movements (product_id, delta, reason, created_at) VALUES ($1, $2, $3, $4)`,
			sale.ProductID, sale.Quantity, models.MovementSaleReversal, time.Now().UTC())
		return err
	})
	if err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

func (r *PostgresSaleRepository) GetByID(ctx context.Context, id int) (models.Sale, error) {
	query := `SELECT id, product_id, product_name, sku, quantity, sell_price, unit_cost, sold_at FROM sales WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Sale
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.ProductID, &s.ProductName, &s.SKU,
		&s.Quantity, &s.SellPrice, &s.UnitCost, &s.SoldAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, ErrSaleNotFound
	}
	return s, err
}

func (r *PostgresSaleRepository) Filter(ctx context.Context, sf SaleFilter) ([]models.Sale, int, error) {
	conditions, args, argIdx := saleFilterConditions(sf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM sales WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, product_id, product_name, sku, quantity, sell_price, unit_cost, sold_at
		FROM sales WHERE 1=1` + conditions + " ORDER BY sold_at DESC, id DESC"
	if sf.Limit != nil && *sf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *sf.Limit)
		argIdx++
	}
	if sf.Offset != nil && *sf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *sf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.SKU,
			&s.Quantity, &s.SellPrice, &s.UnitCost, &s.SoldAt); err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
	}
	return sales, totalCount, rows.Err()
}

func saleFilterConditions(sf SaleFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if sf.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", argIdx)
		args = append(args, *sf.ProductID)
		argIdx++
	}
	if sf.Since != nil {
		query += fmt.Sprintf(" AND sold_at >= $%d", argIdx)
		args = append(args, *sf.Since)
		argIdx++
	}
	if sf.Until != nil {
		query += fmt.Sprintf(" AND sold_at <= $%d", argIdx)
		args = append(args, *sf.Until)
		argIdx++
	}

	return query, args, argIdx
}
