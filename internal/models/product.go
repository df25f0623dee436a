package models

import "time"

// Product categories carried by the catalog. Two-word categories are
// lowercase and hyphen-separated.
const (
	CategoryBedCovers     = "bed-covers"
	CategoryCushionCovers = "cushion-covers"
	CategorySarees        = "sarees"
	CategoryTowels        = "towels"
)

// Categories lists every valid product category.
var Categories = []string{
	CategoryBedCovers,
	CategoryCushionCovers,
	CategorySarees,
	CategoryTowels,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CostComponent is one itemized piece of a product's unit cost, e.g.
// Material or Embroidery. The sum of components need not equal Cost;
// the operator-supplied Cost stays authoritative.
type CostComponent struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ImageRef points at an uploaded product image in object storage,
// optionally annotated by the vision model and overridden by an operator.
type ImageRef struct {
	AssetID           string  `json:"asset_id"`
	StorageKey        string  `json:"storage_key"`
	Bucket            string  `json:"bucket"`
	URL               string  `json:"url"`
	Filename          string  `json:"filename,omitempty"`
	ContentType       string  `json:"content_type,omitempty"`
	Size              int64   `json:"size,omitempty"`
	Caption           string  `json:"caption,omitempty"`
	CaptionConfidence float64 `json:"caption_confidence,omitempty"`
	CaptionModel      string  `json:"caption_model,omitempty"`
	CaptionOverride   string  `json:"caption_override,omitempty"`
}

// Product represents a textile product in the inventory.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Price         float64         `json:"price"`
	Cost          float64         `json:"cost"`
	CostBreakdown []CostComponent `json:"cost_breakdown,omitempty"`
	Description   string          `json:"description,omitempty"`
	Caption       string          `json:"caption,omitempty"`
	Images        []ImageRef      `json:"images,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// TotalValue is the derived stock value; it is never stored.
func (p Product) TotalValue() float64 {
	return float64(p.Quantity) * p.Price
}
