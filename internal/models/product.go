package models

// Product represents a catalog item as served to the storefront.
// The catalog is owned by an external store; the API only reads it.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	ImageURL      string   `json:"image_url"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	InStock       bool     `json:"inStock"`
	Category      string   `json:"category"`
}
