package payment

// PaymentStatusPaid is the provider-side status indicating the charge
// settled. Anything else ("unpaid", "no_payment_required" edge cases aside)
// is treated as not completed.
const PaymentStatusPaid = "paid"

// LineItem is one purchasable row on the hosted checkout page.
// UnitAmount is in integer minor currency units (cents).
type LineItem struct {
	Name       string
	ImageURL   string
	UnitAmount int64
	Quantity   int64
}

// SessionSpec describes the hosted checkout session to create.
type SessionSpec struct {
	CustomerID       string
	LineItems        []LineItem
	Currency         string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string

	// IdempotencyKey guards against duplicate sessions when the client
	// retries the checkout call.
	IdempotencyKey string

	// OrderRef ties the session back to the local order record.
	OrderRef string
}

// Session is the provider's view of a checkout session.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	CustomerEmail   string
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
}
