package domain

// Product is an immutable catalog record supplied by the catalog provider.
// Prices are in cents. The stores hold copies and never mutate a product.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    int64   `json:"price"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url,omitempty"`
	Rating   float64 `json:"rating"`
}
