package ops

import "github.com/texfolio/stockroom/internal/models"

// Argument structs for the catalog operations. Required numeric fields
// are pointers so an absent value is distinguishable from zero.

type AddProductArgs struct {
	Name          string                 `json:"name" validate:"required"`
	Type          string                 `json:"type" validate:"required,oneof=bed-covers cushion-covers sarees towels"`
	Quantity      *int                   `json:"quantity" validate:"required,gte=0"`
	Price         *float64               `json:"price" validate:"required,gte=0"`
	SKU           string                 `json:"sku,omitempty"`
	Cost          float64                `json:"cost,omitempty" validate:"gte=0"`
	CostBreakdown []models.CostComponent `json:"cost_breakdown,omitempty" validate:"dive"`
	Description   string                 `json:"description,omitempty" validate:"max=500"`
	Caption       string                 `json:"caption,omitempty" validate:"max=200"`
}

type UpdateProductArgs struct {
	ProductIdentifier string                  `json:"product_identifier" validate:"required"`
	Name              *string                 `json:"name,omitempty"`
	SKU               *string                 `json:"sku,omitempty"`
	Type              *string                 `json:"type,omitempty" validate:"omitempty,oneof=bed-covers cushion-covers sarees towels"`
	Quantity          *int                    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price             *float64                `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost              *float64                `json:"cost,omitempty" validate:"omitempty,gte=0"`
	CostBreakdown     *[]models.CostComponent `json:"cost_breakdown,omitempty"`
	Description       *string                 `json:"description,omitempty" validate:"omitempty,max=500"`
	Caption           *string                 `json:"caption,omitempty" validate:"omitempty,max=200"`
}

type UpdateInventoryArgs struct {
	ProductName    string `json:"product_name" validate:"required"`
	QuantityChange *int   `json:"quantity_change,omitempty"`
	NewQuantity    *int   `json:"new_quantity,omitempty" validate:"omitempty,gte=0"`
}

type SearchProductsArgs struct {
	SearchTerm string `json:"search_term,omitempty"`
	Type       string `json:"type,omitempty" validate:"omitempty,oneof=bed-covers cushion-covers sarees towels"`
	LowStock   bool   `json:"low_stock,omitempty"`
}

type ListProductsArgs struct {
	Type     string `json:"type,omitempty" validate:"omitempty,oneof=bed-covers cushion-covers sarees towels all"`
	LowStock bool   `json:"low_stock,omitempty"`
}

type ProductIdentifierArgs struct {
	ProductIdentifier string `json:"product_identifier" validate:"required"`
}

type RecordSaleArgs struct {
	ProductName string   `json:"product_name" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required,gt=0"`
	SellPrice   *float64 `json:"sell_price,omitempty" validate:"omitempty,gt=0"`
	// SaleDate backdates the sale; RFC 3339 or YYYY-MM-DD.
	SaleDate string `json:"sale_date,omitempty"`
}

type DeleteSaleArgs struct {
	SaleID *int `json:"sale_id" validate:"required,gt=0"`
}

type SalesHistoryArgs struct {
	ProductName string `json:"product_name,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

type RecentSalesArgs struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

type InventorySummaryArgs struct{}

type PeriodArgs struct {
	Period string `json:"period,omitempty" validate:"omitempty,oneof=today week month 2months year all"`
}

type MonthlyProfitsArgs struct {
	Months int `json:"months,omitempty" validate:"omitempty,gte=1,lte=24"`
}

type TopProductsArgs struct {
	Period string `json:"period,omitempty" validate:"omitempty,oneof=today week month 2months year all"`
	SortBy string `json:"sort_by,omitempty" validate:"omitempty,oneof=revenue quantity profit"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50"`
}

type LowStockAlertsArgs struct {
	Threshold *int `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

type SalesTrendsArgs struct {
	Period string `json:"period,omitempty" validate:"omitempty,oneof=week month 2months year"`
}
