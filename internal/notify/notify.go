package notify

import (
	"context"
	"log/slog"
)

// ReceiptEmail is the payload of a payment receipt notification.
type ReceiptEmail struct {
	To          string `json:"to"`
	OrderID     string `json:"order_id"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
	ReceiptRef  string `json:"receipt_ref"`
	ReceiptURL  string `json:"receipt_url"`
}

// VerificationEmail is the payload of an OTP verification notification.
type VerificationEmail struct {
	To        string `json:"to"`
	Code      string `json:"code"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Notifier dispatches customer-facing emails. Delivery is best-effort;
// callers must not treat notification failure as fatal to the operation
// that triggered it.
type Notifier interface {
	SendReceipt(ctx context.Context, msg ReceiptEmail) error
	SendVerification(ctx context.Context, msg VerificationEmail) error
}

// LogNotifier writes notifications to the log instead of dispatching them.
// Used in development and tests.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendReceipt(ctx context.Context, msg ReceiptEmail) error {
	n.log.Info("receipt email (not dispatched)",
		"to", msg.To,
		"order_id", msg.OrderID,
		"amount_total", msg.AmountTotal,
		"currency", msg.Currency,
	)
	return nil
}

func (n *LogNotifier) SendVerification(ctx context.Context, msg VerificationEmail) error {
	n.log.Info("verification email (not dispatched)",
		"to", msg.To,
		"expires_in", msg.ExpiresIn,
	)
	return nil
}
