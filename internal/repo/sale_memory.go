package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/texfolio/stockroom/internal/models"
)

// InMemorySaleRepository mirrors the Postgres coordinator's semantics for
// tests: the quantity guard runs before the sale row appears, and a failed
// restore leaves the sale untouched.
type InMemorySaleRepository struct {
	mu        sync.Mutex
	sales     []models.Sale
	nextID    int
	products  *InMemoryProductRepository
	movements MovementRepository
}

func NewInMemorySaleRepository(products *InMemoryProductRepository, movements MovementRepository) *InMemorySaleRepository {
	return &InMemorySaleRepository{
		sales:     []models.Sale{},
		nextID:    1,
		products:  products,
		movements: movements,
	}
}

func (r *InMemorySaleRepository) RecordSale(ctx context.Context, params RecordSaleParams) (models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, err := r.products.GetByID(ctx, params.ProductID)
	if err != nil {
		return models.Sale{}, err
	}
	if product.SKU != params.SKU {
		return models.Sale{}, ErrSKUMismatch
	}

	// AdjustQuantity enforces the non-negative invariant; nothing has been
	// written yet if it rejects the change.
	if _, err := r.products.AdjustQuantity(ctx, params.ProductID, -params.Quantity); err != nil {
		return models.Sale{}, err
	}

	soldAt := params.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now().UTC()
	}
	sale := models.Sale{
		ID:          r.nextID,
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Quantity:    params.Quantity,
		SellPrice:   params.SellPrice,
		UnitCost:    product.Cost,
		SoldAt:      soldAt,
	}
	r.nextID++
	r.sales = append(r.sales, sale)

	if r.movements != nil {
		_ = r.movements.Log(ctx, sale.ProductID, -sale.Quantity, models.MovementSale)
	}
	return sale, nil
}

func (r *InMemorySaleRepository) DeleteSale(ctx context.Context, id int) (models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.sales {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Sale{}, ErrSaleNotFound
	}
	sale := r.sales[idx]

	if _, err := r.products.AdjustQuantity(ctx, sale.ProductID, sale.Quantity); err != nil {
		return models.Sale{}, err
	}
	r.sales = append(r.sales[:idx], r.sales[idx+1:]...)

	if r.movements != nil {
		_ = r.movements.Log(ctx, sale.ProductID, sale.Quantity, models.MovementSaleReversal)
	}
	return sale, nil
}

func (r *InMemorySaleRepository) GetByID(_ context.Context, id int) (models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Sale{}, ErrSaleNotFound
}

func (r *InMemorySaleRepository) Filter(_ context.Context, sf SaleFilter) ([]models.Sale, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Sale
	for _, s := range r.sales {
		if sf.ProductID != nil && s.ProductID != *sf.ProductID {
			continue
		}
		if sf.Since != nil && s.SoldAt.Before(*sf.Since) {
			continue
		}
		if sf.Until != nil && s.SoldAt.After(*sf.Until) {
			continue
		}
		filtered = append(filtered, s)
	}

	// Most recent first, matching the Postgres ordering.
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].SoldAt.Equal(filtered[j].SoldAt) {
			return filtered[i].SoldAt.After(filtered[j].SoldAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := len(filtered)
	start := 0
	if sf.Offset != nil {
		start = clamp(*sf.Offset, 0, total)
	}
	end := total
	if sf.Limit != nil && *sf.Limit > 0 {
		end = clamp(start+*sf.Limit, start, total)
	}
	return filtered[start:end], total, nil
}

// All returns every sale in insertion order. Test helper.
func (r *InMemorySaleRepository) All() []models.Sale {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Sale, len(r.sales))
	copy(out, r.sales)
	return out
}

// Clear removes every sale. Test helper.
func (r *InMemorySaleRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = []models.Sale{}
	r.nextID = 1
}
