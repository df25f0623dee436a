package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

func (e *env) importCSV(t *testing.T, csv, mode string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write([]byte(csv))
	mw.Close()

	path := "/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestImportProducts(t *testing.T) {
	e := newEnv(t)

	csv := strings.Join([]string{
		"name,sku,type,quantity,price,cost,description",
		"Blue Cushion Cover,BCC-000001,cushion-covers,20,25.5,12,Soft cotton",
		"Silk Saree,,sarees,5,120,70,",
	}, "\n")

	rec := e.importCSV(t, csv, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := decode[handlers.ImportProductsResult](t, rec)
	if result.ImportedProductsCount != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected import result %+v", result)
	}

	// The saree row had no SKU; one must have been derived.
	products, _ := e.products.GetAll(context.Background())
	for _, p := range products {
		if p.SKU == "" {
			t.Errorf("product %q has no SKU", p.Name)
		}
	}
}

func TestImportProductsReportsBadRows(t *testing.T) {
	e := newEnv(t)

	csv := strings.Join([]string{
		"name,type,quantity,price",
		"Good Towel,towels,5,9.5",
		",towels,5,9.5",
		"Bad Rug,rugs,5,30",
	}, "\n")

	rec := e.importCSV(t, csv, "")
	result := decode[handlers.ImportProductsResult](t, rec)
	if result.ImportedProductsCount != 1 {
		t.Errorf("expected 1 imported, got %d", result.ImportedProductsCount)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %+v", result.Errors)
	}
	// Row errors carry their CSV line numbers; the header is line 1.
	if result.Errors[0].Field != "line 3" || result.Errors[1].Field != "line 4" {
		t.Errorf("unexpected error lines %+v", result.Errors)
	}
}

func TestImportProductsSkipMode(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, models.Product{
		Name: "Towel", SKU: "T-000001", Category: models.CategoryTowels, Quantity: 10, Price: 9,
	})

	csv := "name,sku,type,quantity,price\nTowel,T-000001,towels,99,9\n"
	rec := e.importCSV(t, csv, "skip")
	result := decode[handlers.ImportProductsResult](t, rec)
	if result.ImportedProductsCount != 0 || len(result.Errors) != 1 {
		t.Fatalf("unexpected skip result %+v", result)
	}

	product, _ := e.products.GetBySKU(context.Background(), "T-000001")
	if product.Quantity != 10 {
		t.Errorf("expected existing product untouched, got quantity %d", product.Quantity)
	}
}

func TestImportProductsUpdateMode(t *testing.T) {
	e := newEnv(t)
	created := e.seedProduct(t, models.Product{
		Name: "Towel", SKU: "T-000001", Category: models.CategoryTowels, Quantity: 10, Price: 9,
	})

	csv := "name,sku,type,quantity,price\nTowel,T-000001,towels,25,11\n"
	rec := e.importCSV(t, csv, "update")
	result := decode[handlers.ImportProductsResult](t, rec)
	if result.ImportedProductsCount != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected update result %+v", result)
	}

	product, _ := e.products.GetBySKU(context.Background(), "T-000001")
	if product.Quantity != 25 || product.Price != 11 {
		t.Errorf("expected updated product, got %+v", product)
	}

	// The quantity change is audited as an import movement.
	movements, _, _ := e.movements.GetByProductID(context.Background(), created.ID, repo.MovementFilter{})
	found := false
	for _, m := range movements {
		if m.Reason == models.MovementImport && m.Delta == 15 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected import movement of +15, got %+v", movements)
	}
}

func TestImportProductsMissingColumns(t *testing.T) {
	e := newEnv(t)

	rec := e.importCSV(t, "name,quantity\nTowel,5\n", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
