package handlers

import (
	"github.com/texfolio/stockroom/internal/llm"
	"github.com/texfolio/stockroom/internal/models"
)

type ProductRequest struct {
	Name          string                 `json:"name"`
	SKU           string                 `json:"sku,omitempty"`
	Type          string                 `json:"type"`
	Quantity      int                    `json:"quantity"`
	Price         float64                `json:"price"`
	Cost          float64                `json:"cost,omitempty"`
	CostBreakdown []models.CostComponent `json:"cost_breakdown,omitempty"`
	Description   string                 `json:"description,omitempty"`
	Caption       string                 `json:"caption,omitempty"`
	ImageToken    string                 `json:"image_token,omitempty"`
}

// ProductUpdateRequest carries a partial update; absent fields keep
// their stored values.
type ProductUpdateRequest struct {
	Name          *string                 `json:"name,omitempty"`
	SKU           *string                 `json:"sku,omitempty"`
	Type          *string                 `json:"type,omitempty"`
	Quantity      *int                    `json:"quantity,omitempty"`
	Price         *float64                `json:"price,omitempty"`
	Cost          *float64                `json:"cost,omitempty"`
	CostBreakdown *[]models.CostComponent `json:"cost_breakdown,omitempty"`
	Description   *string                 `json:"description,omitempty"`
	Caption       *string                 `json:"caption,omitempty"`
}

type ProductResponse struct {
	models.Product
	TotalValue float64 `json:"total_value"`
	LowStock   bool    `json:"low_stock"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

// QuantityAdjustmentRequest changes stock either by a delta or to an
// absolute value; the absolute value wins when both are present.
type QuantityAdjustmentRequest struct {
	QuantityChange *int `json:"quantity_change,omitempty"`
	NewQuantity    *int `json:"new_quantity,omitempty"`
}

type SaleRequest struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	SellPrice   *float64 `json:"sell_price,omitempty"`
	SaleDate    string   `json:"sale_date,omitempty"`
}

type SaleResponse struct {
	models.Sale
	TotalSaleValue float64 `json:"total_sale_value"`
	Profit         float64 `json:"profit"`
	Margin         float64 `json:"margin"`
}

type SalesSearchResult struct {
	Data []SaleResponse `json:"data"`
	Meta Meta           `json:"meta,omitempty"`
}

type MovementResponse struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}

type AssistantMessageRequest struct {
	Message    string        `json:"message"`
	History    []llm.Message `json:"history,omitempty"`
	ImageToken string        `json:"image_token,omitempty"`
}

type ImageUploadResult struct {
	ImageToken       string `json:"image_token"`
	URL              string `json:"url"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Product:    p,
		TotalValue: p.TotalValue(),
		LowStock:   p.Quantity < lowStockThreshold,
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toSaleResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		Sale:           s,
		TotalSaleValue: s.Revenue(),
		Profit:         s.Profit(),
		Margin:         s.Margin(),
	}
}
