package repo

import "time"

// ProductFilter narrows product listings. Nil pointer fields are ignored.
type ProductFilter struct {
	// Search matches name, SKU or description, case-insensitively.
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	MinQty   *int
	MaxQty   *int
	// LowStockBelow keeps only products with quantity strictly below the
	// given threshold.
	LowStockBelow *int
	Offset        *int
	Limit         *int
}

// SaleFilter narrows sale listings. Results are ordered most recent first.
type SaleFilter struct {
	ProductID *int
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}

// MovementFilter narrows movement listings for a product.
type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}
