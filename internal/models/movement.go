package models

import "time"

// Movement reasons.
const (
	MovementAdjustment   = "adjustment"
	MovementSale         = "sale"
	MovementSaleReversal = "sale-reversal"
	MovementImport       = "import"
)

// Movement is one audited stock change for a product.
type Movement struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
