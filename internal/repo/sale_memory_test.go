package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/texfolio/stockroom/internal/models"
)

func saleFixture(t *testing.T) (*InMemoryProductRepository, *InMemoryMovementRepository, *InMemorySaleRepository, models.Product) {
	t.Helper()

	products := NewInMemoryProductRepository()
	movements := NewInMemoryMovementRepository()
	sales := NewInMemorySaleRepository(products, movements)

	product, err := products.Create(context.Background(), models.Product{
		Name: "Silk Saree", SKU: "SS-000001", Category: models.CategorySarees,
		Quantity: 10, Price: 120, Cost: 70,
	})
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return products, movements, sales, product
}

func TestRecordSaleSnapshotsProduct(t *testing.T) {
	products, _, sales, product := saleFixture(t)
	ctx := context.Background()

	soldAt := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	sale, err := sales.RecordSale(ctx, RecordSaleParams{
		ProductID: product.ID, SKU: product.SKU, Quantity: 3, SellPrice: 110, SoldAt: soldAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sale.ProductName != "Silk Saree" || sale.SKU != "SS-000001" || sale.UnitCost != 70 {
		t.Errorf("expected product snapshot on sale, got %+v", sale)
	}
	if !sale.SoldAt.Equal(soldAt) {
		t.Errorf("expected backdated SoldAt, got %v", sale.SoldAt)
	}

	got, _ := products.GetByID(ctx, product.ID)
	if got.Quantity != 7 {
		t.Errorf("expected stock 7, got %d", got.Quantity)
	}
}

func TestRecordSaleSKUMismatch(t *testing.T) {
	products, _, sales, product := saleFixture(t)
	ctx := context.Background()

	_, err := sales.RecordSale(ctx, RecordSaleParams{
		ProductID: product.ID, SKU: "STALE-000099", Quantity: 1, SellPrice: 100,
	})
	if !errors.Is(err, ErrSKUMismatch) {
		t.Fatalf("expected ErrSKUMismatch, got %v", err)
	}

	// The guard fires before any write.
	got, _ := products.GetByID(ctx, product.ID)
	if got.Quantity != 10 {
		t.Errorf("expected stock untouched at 10, got %d", got.Quantity)
	}
	if len(sales.All()) != 0 {
		t.Error("expected no sale recorded")
	}
}

func TestRecordSaleInsufficientStockIsAtomic(t *testing.T) {
	products, _, sales, product := saleFixture(t)
	ctx := context.Background()

	_, err := sales.RecordSale(ctx, RecordSaleParams{
		ProductID: product.ID, SKU: product.SKU, Quantity: 11, SellPrice: 100,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, _ := products.GetByID(ctx, product.ID)
	if got.Quantity != 10 {
		t.Errorf("expected stock untouched at 10, got %d", got.Quantity)
	}
	if len(sales.All()) != 0 {
		t.Error("expected no sale recorded")
	}
}

func TestDeleteSaleRestoresAndAudits(t *testing.T) {
	products, movements, sales, product := saleFixture(t)
	ctx := context.Background()

	sale, err := sales.RecordSale(ctx, RecordSaleParams{
		ProductID: product.ID, SKU: product.SKU, Quantity: 4, SellPrice: 100,
	})
	if err != nil {
		t.Fatalf("recording sale: %v", err)
	}

	deleted, err := sales.DeleteSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("deleting sale: %v", err)
	}
	if deleted.ID != sale.ID {
		t.Errorf("expected deleted sale %d, got %d", sale.ID, deleted.ID)
	}

	got, _ := products.GetByID(ctx, product.ID)
	if got.Quantity != 10 {
		t.Errorf("expected stock restored to 10, got %d", got.Quantity)
	}

	logged, _, err := movements.GetByProductID(ctx, product.ID, MovementFilter{})
	if err != nil {
		t.Fatalf("fetching movements: %v", err)
	}
	reasons := map[string]int{}
	for _, m := range logged {
		reasons[m.Reason] += m.Delta
	}
	if reasons[models.MovementSale] != -4 || reasons[models.MovementSaleReversal] != 4 {
		t.Errorf("expected paired sale movements, got %v", reasons)
	}
}

func TestDeleteSaleAfterProductGone(t *testing.T) {
	products, _, sales, product := saleFixture(t)
	ctx := context.Background()

	sale, err := sales.RecordSale(ctx, RecordSaleParams{
		ProductID: product.ID, SKU: product.SKU, Quantity: 1, SellPrice: 100,
	})
	if err != nil {
		t.Fatalf("recording sale: %v", err)
	}
	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("deleting product: %v", err)
	}

	if _, err := sales.DeleteSale(ctx, sale.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	// The sale stays in history when its product no longer exists.
	if _, err := sales.GetByID(ctx, sale.ID); err != nil {
		t.Errorf("expected sale to remain, got %v", err)
	}
}

func TestDuplicateSKUIsCaseInsensitive(t *testing.T) {
	products, _, _, _ := saleFixture(t)

	_, err := products.Create(context.Background(), models.Product{
		Name: "Copy", SKU: "ss-000001", Category: models.CategorySarees,
	})
	if !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}
