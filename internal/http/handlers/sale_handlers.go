package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/texfolio/stockroom/internal/repo"
)

// CreateSaleHandler godoc
// @Summary Record a sale
// @Description Records the sale and decrements the product's stock atomically
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Sale to record"
// @Success 201 {object} SaleResponse
// @Failure 409 {object} map[string]any
// @Router /sales [post]
func CreateSaleHandler(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be greater than zero", http.StatusBadRequest)
		return
	}

	product, ok := resolveOr404(w, r, req.ProductName)
	if !ok {
		return
	}

	sellPrice := product.Price
	if req.SellPrice != nil {
		sellPrice = *req.SellPrice
	}

	var soldAt time.Time
	if req.SaleDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.SaleDate)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.SaleDate)
		}
		if err != nil {
			http.Error(w, "invalid sale_date", http.StatusBadRequest)
			return
		}
		soldAt = parsed
	}

	sale, err := saleRepo.RecordSale(r.Context(), repo.RecordSaleParams{
		ProductID: product.ID,
		SKU:       product.SKU,
		Quantity:  req.Quantity,
		SellPrice: sellPrice,
		SoldAt:    soldAt,
	})
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":            "insufficient stock",
				"current_quantity": product.Quantity,
			})
			return
		}
		http.Error(w, "could not record sale", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleResponse(sale))
}

// GetSalesHandler godoc
// @Summary List sales
// @Description Lists sales, most recent first, with optional product and date filters
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param product query string false "Product id, SKU, or name"
// @Param start_date query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end_date query string false "Range end"
// @Param limit query int false "Maximum sales to return"
// @Success 200 {object} SalesSearchResult
// @Router /sales [get]
func GetSalesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sf := repo.SaleFilter{}

	if identifier := q.Get("product"); identifier != "" {
		product, ok := resolveOr404(w, r, identifier)
		if !ok {
			return
		}
		sf.ProductID = &product.ID
	}
	if v := q.Get("start_date"); v != "" {
		since, err := parseQueryTime(v)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		sf.Since = &since
	}
	if v := q.Get("end_date"); v != "" {
		until, err := parseQueryTime(v)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		sf.Until = &until
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			sf.Limit = &limit
		}
	}

	sales, total, err := saleRepo.Filter(r.Context(), sf)
	if err != nil {
		http.Error(w, "could not fetch sales", http.StatusInternalServerError)
		return
	}
	response := make([]SaleResponse, len(sales))
	for i, s := range sales {
		response[i] = toSaleResponse(s)
	}
	writeJSON(w, http.StatusOK, SalesSearchResult{
		Data: response,
		Meta: Meta{TotalCount: total},
	})
}

// DeleteSaleHandler godoc
// @Summary Delete a sale
// @Description Removes the sale and restores its quantity to the product atomically
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sale id"
// @Success 200 {object} map[string]any
// @Failure 404 {string} string "Not found"
// @Router /sales/{id} [delete]
func DeleteSaleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid sale ID", http.StatusBadRequest)
		return
	}

	sale, err := saleRepo.DeleteSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrSaleNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "sale's product no longer exists", http.StatusConflict)
			return
		}
		http.Error(w, "could not delete sale", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":           true,
		"sale":              toSaleResponse(sale),
		"restored_quantity": sale.Quantity,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
