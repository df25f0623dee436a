package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent/resolver"
	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
	"github.com/texfolio/stockroom/internal/skugen"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory, deriving a SKU when none is given
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	product := models.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Type,
		Quantity:      req.Quantity,
		Price:         req.Price,
		Cost:          req.Cost,
		CostBreakdown: req.CostBreakdown,
		Description:   req.Description,
		Caption:       req.Caption,
	}

	if req.ImageToken != "" && imageCache != nil {
		entry, ok, err := imageCache.Consume(r.Context(), req.ImageToken)
		if err != nil {
			logger.Warn("image context lookup failed", zap.Error(err))
		} else if ok {
			product.Images = append(product.Images, models.ImageRef{
				AssetID:     entry.AssetID,
				StorageKey:  entry.StorageKey,
				Bucket:      entry.Bucket,
				URL:         entry.URL,
				Filename:    entry.Filename,
				ContentType: entry.ContentType,
				Size:        entry.Size,
				Caption:     entry.Caption,
			})
		}
	}

	created, err := createProductWithSKU(r, product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSKU) {
			http.Error(w, "could not create product: SKU already in use", http.StatusConflict)
			return
		}
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// createProductWithSKU derives a SKU when the request left it empty,
// retrying shifted suffixes on collision. Operator-supplied SKUs are
// never rewritten.
func createProductWithSKU(r *http.Request, product models.Product) (models.Product, error) {
	if product.SKU != "" {
		return productRepo.Create(r.Context(), product)
	}

	seed := time.Now().UnixNano()
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		product.SKU = skugen.Derive(product.Name, seed, attempt)
		created, err := productRepo.Create(r.Context(), product)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repo.ErrDuplicateSKU) {
			return models.Product{}, err
		}
		lastErr = err
	}
	return models.Product{}, lastErr
}

// GetProductsHandler godoc
// @Summary List products
// @Description Lists products with optional search, category and low-stock filters
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name, SKU and description"
// @Param type query string false "Category filter"
// @Param low_stock query bool false "Only products below the low-stock threshold"
// @Success 200 {object} ProductsSearchResult
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pf := repo.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("type"),
	}
	if q.Get("low_stock") == "true" {
		threshold := lowStockThreshold
		pf.LowStockBelow = &threshold
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			pf.Limit = &limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			pf.Offset = &offset
		}
	}

	products, total, err := productRepo.Filter(r.Context(), pf)
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: total},
	})
}

// GetProductHandler godoc
// @Summary Get one product
// @Description Resolves the identifier as id, SKU, or partial name
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Product id, SKU, or name"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} map[string]any
// @Router /products/{identifier} [get]
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveOr404(w, r, chi.URLParam(r, "identifier"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Applies a partial update; absent fields keep their values
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Product id, SKU, or name"
// @Param product body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} map[string]any
// @Router /products/{identifier} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	product, ok := resolveOr404(w, r, chi.URLParam(r, "identifier"))
	if !ok {
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Type != nil {
		if !models.ValidCategory(*req.Type) {
			http.Error(w, "invalid product type", http.StatusBadRequest)
			return
		}
		product.Category = *req.Type
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
			return
		}
		product.Quantity = *req.Quantity
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.CostBreakdown != nil {
		product.CostBreakdown = *req.CostBreakdown
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Caption != nil {
		product.Caption = *req.Caption
	}

	updated, err := productRepo.Update(r.Context(), product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSKU) {
			http.Error(w, "SKU already in use", http.StatusConflict)
			return
		}
		http.Error(w, "could not update product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param identifier path string true "Product id, SKU, or name"
// @Success 204 {string} string "No Content"
// @Failure 404 {object} map[string]any
// @Router /products/{identifier} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveOr404(w, r, chi.URLParam(r, "identifier"))
	if !ok {
		return
	}
	if err := productRepo.Delete(r.Context(), product.ID); err != nil {
		http.Error(w, "could not delete product", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustQuantityHandler godoc
// @Summary Adjust a product's stock
// @Description Applies a relative change or an absolute quantity; the absolute value wins when both are given
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Product id, SKU, or name"
// @Param adjustment body QuantityAdjustmentRequest true "Adjustment"
// @Success 200 {object} ProductResponse
// @Failure 409 {object} map[string]any
// @Router /products/quantity/{identifier} [put]
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.QuantityChange == nil && req.NewQuantity == nil {
		http.Error(w, "either quantity_change or new_quantity is required", http.StatusBadRequest)
		return
	}
	if req.NewQuantity != nil && *req.NewQuantity < 0 {
		http.Error(w, "new_quantity cannot be negative", http.StatusBadRequest)
		return
	}

	product, ok := resolveOr404(w, r, chi.URLParam(r, "identifier"))
	if !ok {
		return
	}

	delta := 0
	if req.QuantityChange != nil {
		delta = *req.QuantityChange
	}
	if req.NewQuantity != nil {
		delta = *req.NewQuantity - product.Quantity
	}

	updated, err := productRepo.AdjustQuantity(r.Context(), product.ID, delta)
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":            "insufficient stock",
				"current_quantity": product.Quantity,
			})
			return
		}
		http.Error(w, "could not adjust quantity", http.StatusInternalServerError)
		return
	}

	if movementRepo != nil && delta != 0 {
		if err := movementRepo.Log(r.Context(), updated.ID, delta, models.MovementAdjustment); err != nil {
			logger.Warn("recording stock movement failed",
				zap.Int("product_id", updated.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// GetMovementsHandler godoc
// @Summary List a product's stock movements
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Success 200 {object} MovementsSearchResult
// @Router /products/{id}/movements [get]
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	movements, total, err := movementRepo.GetByProductID(r.Context(), id, repo.MovementFilter{})
	if err != nil {
		http.Error(w, "could not fetch movements", http.StatusInternalServerError)
		return
	}

	response := make([]MovementResponse, len(movements))
	for i, m := range movements {
		response[i] = MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Delta:     m.Delta,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, MovementsSearchResult{
		Data: response,
		Meta: Meta{TotalCount: total},
	})
}

// resolveOr404 resolves a product identifier, writing the 404 payload
// (with suggestions when available) on failure.
func resolveOr404(w http.ResponseWriter, r *http.Request, identifier string) (models.Product, bool) {
	product, err := productResolver.Resolve(r.Context(), identifier)
	if err == nil {
		return product, true
	}

	var notFound *resolver.NotFoundError
	var ambiguous *resolver.AmbiguousError
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":       "product not found",
			"suggestions": notFound.Suggestions,
		})
	case errors.As(err, &ambiguous):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":       "identifier matches multiple products",
			"suggestions": ambiguous.Suggestions,
		})
	default:
		http.Error(w, "could not resolve product", http.StatusInternalServerError)
	}
	return models.Product{}, false
}
