package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
	"github.com/texfolio/stockroom/internal/skugen"
)

type csvRow struct {
	Name        string
	SKU         string
	Type        string
	Quantity    int
	Price       float64
	Cost        float64
	Description string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "type", "quantity", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:        field(record, "name"),
			SKU:         field(record, "sku"),
			Type:        field(record, "type"),
			Quantity:    parseInt(field(record, "quantity")),
			Price:       parseFloat(field(record, "price")),
			Cost:        parseFloat(field(record, "cost")),
			Description: field(record, "description"),
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if !models.ValidCategory(r.Type) {
		return errors.New("invalid type")
	}
	if r.Price < 0 {
		return errors.New("invalid price")
	}
	if r.Quantity < 0 {
		return errors.New("invalid quantity")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, type, quantity, price, and optional sku, cost, description. Mode skip leaves existing SKUs alone; mode update overwrites them.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var imported int
	var errorsList []ProductValidationError
	seed := time.Now().UnixNano()

	for i, row := range records {
		line := i + 2 // header is line 1
		if err := validateRow(row); err != nil {
			errorsList = append(errorsList, ProductValidationError{
				Field:       fmt.Sprintf("line %d", line),
				Description: err.Error(),
			})
			continue
		}

		product := models.Product{
			Name:        row.Name,
			SKU:         row.SKU,
			Category:    row.Type,
			Quantity:    row.Quantity,
			Price:       row.Price,
			Cost:        row.Cost,
			Description: row.Description,
		}
		if product.SKU == "" {
			product.SKU = skugen.Derive(product.Name, seed, i)
		}

		_, err := productRepo.Create(r.Context(), product)
		if err == nil {
			imported++
			continue
		}
		if !errors.Is(err, repo.ErrDuplicateSKU) {
			errorsList = append(errorsList, ProductValidationError{
				Field:       fmt.Sprintf("line %d", line),
				Description: "could not create product",
			})
			continue
		}

		if mode == "skip" {
			errorsList = append(errorsList, ProductValidationError{
				Field:       fmt.Sprintf("line %d", line),
				Description: "SKU already exists, skipped",
			})
			continue
		}

		if err := updateExisting(r, product); err != nil {
			errorsList = append(errorsList, ProductValidationError{
				Field:       fmt.Sprintf("line %d", line),
				Description: "could not update existing product",
			})
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}

// updateExisting overwrites the stored product that owns the row's SKU,
// auditing any quantity change as an import movement.
func updateExisting(r *http.Request, product models.Product) error {
	existing, err := productRepo.GetBySKU(r.Context(), product.SKU)
	if err != nil {
		return err
	}

	delta := product.Quantity - existing.Quantity
	product.ID = existing.ID
	if _, err := productRepo.Update(r.Context(), product); err != nil {
		return err
	}

	if movementRepo != nil && delta != 0 {
		if err := movementRepo.Log(r.Context(), existing.ID, delta, models.MovementImport); err != nil {
			logger.Warn("recording import movement failed",
				zap.Int("product_id", existing.ID), zap.Error(err))
		}
	}
	return nil
}
