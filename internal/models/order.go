package models

import "time"

// OrderStatus is the two-state lifecycle of a purchase record.
// Orders only ever transition pending -> paid; failed and canceled payments
// never come back through the confirmation callback.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Address holds the shipping address fields collected at checkout.
type Address struct {
	Street  string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// CustomerInfo carries the contact and delivery fields submitted with a
// checkout request.
type CustomerInfo struct {
	Email         string  `json:"customerEmail"`
	Name          string  `json:"customerName"`
	Phone         string  `json:"customerPhone,omitempty"`
	Address       Address `json:"customerAddress"`
	DeliveryNotes string  `json:"deliveryNotes,omitempty"`
}

// OrderItem is a snapshot of a cart entry at the time the order was placed.
// UnitPrice is the price charged, not the current catalog price.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Order is the durable purchase record. It is created in pending state before
// the customer is redirected to the payment provider and becomes immutable
// except for the status transition on payment confirmation.
type Order struct {
	ID            string      `json:"id"`
	SessionID     string      `json:"sessionId"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone,omitempty"`
	Address       Address     `json:"address"`
	DeliveryNotes string      `json:"deliveryNotes,omitempty"`
	Items         []OrderItem `json:"items"`
	AmountTotal   int64       `json:"amountTotal"` // minor currency units
	Currency      string      `json:"currency"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
