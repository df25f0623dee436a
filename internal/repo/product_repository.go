package repo

import (
	"context"

	"github.com/texfolio/stockroom/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	// GetBySKU matches case-insensitively.
	GetBySKU(ctx context.Context, sku string) (models.Product, error)
	// SearchByName returns case-insensitive substring matches ordered by
	// most recently updated first, then lowest id. The ordering is part of
	// the contract: entity resolution depends on it being deterministic.
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	// AdjustQuantity applies a relative delta, rejecting any change that
	// would drive quantity below zero with ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id int, delta int) (models.Product, error)
}
