package repo

import (
	"context"
	"time"

	"github.com/texfolio/stockroom/internal/models"
)

// RecordSaleParams carries the validated inputs for recording a sale.
// SKU must exactly match the referenced product's SKU at commit time.
type RecordSaleParams struct {
	ProductID int
	SKU       string
	Quantity  int
	SellPrice float64
	// SoldAt defaults to now when zero; sales may be backdated.
	SoldAt time.Time
}

// SaleRepository is the transaction coordinator for sales. RecordSale and
// DeleteSale are the only code paths allowed to couple a sale write with
// the paired product's quantity; both commit or abort as one unit.
type SaleRepository interface {
	// RecordSale creates the sale and decrements the product's quantity
	// atomically. It fails with ErrInsufficientStock, ErrSKUMismatch or
	// ErrProductNotFound without leaving either write behind.
	RecordSale(ctx context.Context, params RecordSaleParams) (models.Sale, error)
	// DeleteSale removes the sale and restores the depleted quantity to
	// the product atomically.
	DeleteSale(ctx context.Context, id int) (models.Sale, error)
	GetByID(ctx context.Context, id int) (models.Sale, error)
	Filter(ctx context.Context, sf SaleFilter) ([]models.Sale, int, error)
}
