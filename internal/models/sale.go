package models

import "time"

// Sale is one recorded sale transaction. A sale is created and deleted
// only through the sale repository's atomic paths; it is otherwise
// immutable.
type Sale struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	SellPrice   float64   `json:"sell_price"`
	UnitCost    float64   `json:"unit_cost"`
	SoldAt      time.Time `json:"sold_at"`
}

// Revenue is quantity × sell price.
func (s Sale) Revenue() float64 {
	return float64(s.Quantity) * s.SellPrice
}

// TotalCost is quantity × unit cost captured at sale time.
func (s Sale) TotalCost() float64 {
	return float64(s.Quantity) * s.UnitCost
}

// Profit is revenue minus total cost.
func (s Sale) Profit() float64 {
	return s.Revenue() - s.TotalCost()
}

// Margin is profit as a percentage of revenue, 0 when revenue is zero.
func (s Sale) Margin() float64 {
	rev := s.Revenue()
	if rev == 0 {
		return 0
	}
	return s.Profit() / rev * 100
}
