package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/models"
)

func TestCreateSaleDecrementsStock(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{
		Name: "Silk Saree", SKU: "SS-000001", Category: models.CategorySarees,
		Quantity: 10, Price: 120, Cost: 70,
	})

	price := 110.0
	rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{
		ProductName: "Silk Saree", Quantity: 2, SellPrice: &price,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	sale := decode[handlers.SaleResponse](t, rec)
	if sale.TotalSaleValue != 220 || sale.Profit != 80 {
		t.Errorf("unexpected sale math %+v", sale)
	}

	product, _ := e.products.GetBySKU(context.Background(), "SS-000001")
	if product.Quantity != 8 {
		t.Errorf("expected stock 8 after sale, got %d", product.Quantity)
	}
}

func TestCreateSaleDefaultsToListPrice(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{
		Name: "Towel", SKU: "T-000001", Category: models.CategoryTowels, Quantity: 5, Price: 9.5,
	})

	rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: "Towel", Quantity: 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if sale := decode[handlers.SaleResponse](t, rec); sale.SellPrice != 9.5 {
		t.Errorf("expected list price 9.5, got %v", sale.SellPrice)
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{
		Name: "Towel", SKU: "T-000001", Category: models.CategoryTowels, Quantity: 3, Price: 10,
	})

	rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: "Towel", Quantity: 5})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	payload := decode[map[string]any](t, rec)
	if got, _ := payload["current_quantity"].(float64); got != 3 {
		t.Errorf("expected current_quantity 3, got %v", payload)
	}

	product, _ := e.products.GetBySKU(context.Background(), "T-000001")
	if product.Quantity != 3 {
		t.Errorf("expected stock untouched at 3, got %d", product.Quantity)
	}
	if len(e.sales.All()) != 0 {
		t.Error("expected no sale recorded")
	}
}

func TestCreateSaleRejectsNonPositiveQuantity(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: "Towel", Quantity: 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{
		Name: "Bed Cover", SKU: "BC-000001", Category: models.CategoryBedCovers,
		Quantity: 10, Price: 60,
	})

	rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: "Bed Cover", Quantity: 4})
	if rec.Code != http.StatusCreated {
		t.Fatalf("recording sale: got %d", rec.Code)
	}
	sale := decode[handlers.SaleResponse](t, rec)

	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/sales/%d", sale.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	payload := decode[map[string]any](t, rec)
	if restored, _ := payload["restored_quantity"].(float64); restored != 4 {
		t.Errorf("expected restored_quantity 4, got %v", payload)
	}

	product, _ := e.products.GetBySKU(context.Background(), "BC-000001")
	if product.Quantity != 10 {
		t.Errorf("expected stock back at 10, got %d", product.Quantity)
	}
}

func TestDeleteSaleUnknown(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodDelete, "/sales/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetSalesFiltersByProduct(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{Name: "Saree", SKU: "S-000001", Category: models.CategorySarees, Quantity: 10, Price: 100})
	e.seedProduct(t, models.Product{Name: "Towel", SKU: "T-000002", Category: models.CategoryTowels, Quantity: 10, Price: 10})

	for _, name := range []string{"Saree", "Saree", "Towel"} {
		if rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: name, Quantity: 1}); rec.Code != http.StatusCreated {
			t.Fatalf("recording sale for %s: got %d", name, rec.Code)
		}
	}

	rec := e.do(t, http.MethodGet, "/sales?product=S-000001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decode[handlers.SalesSearchResult](t, rec)
	if result.Meta.TotalCount != 2 {
		t.Errorf("expected 2 saree sales, got %+v", result.Meta)
	}
	for _, s := range result.Data {
		if s.SKU != "S-000001" {
			t.Errorf("unexpected sale in filter result %+v", s)
		}
	}
}

// Sales keep their own name and SKU snapshot, so history survives the
// product being deleted.
func TestSalesHistorySurvivesProductDeletion(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{Name: "Saree", SKU: "S-000001", Category: models.CategorySarees, Quantity: 10, Price: 100})

	if rec := e.do(t, http.MethodPost, "/sales", handlers.SaleRequest{ProductName: "Saree", Quantity: 1}); rec.Code != http.StatusCreated {
		t.Fatalf("recording sale: got %d", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, "/products/S-000001", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("deleting product: got %d", rec.Code)
	}

	rec := e.do(t, http.MethodGet, "/sales", nil)
	result := decode[handlers.SalesSearchResult](t, rec)
	if result.Meta.TotalCount != 1 || result.Data[0].ProductName != "Saree" {
		t.Errorf("expected sale to survive deletion, got %+v", result)
	}
}
