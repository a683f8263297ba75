package models

// CheckoutItem is one cart entry as submitted by the storefront client.
type CheckoutItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Quantity int     `json:"quantity"`
}

// CheckoutRequest is the payload of POST /api/checkout.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
	CustomerInfo
}

// CheckoutResponse carries the hosted payment page URL back to the client,
// which performs the actual navigation.
type CheckoutResponse struct {
	URL string `json:"url"`
}
