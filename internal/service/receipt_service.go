package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/techhaven/storefront/internal/notify"
	"github.com/techhaven/storefront/internal/payment"
	"github.com/techhaven/storefront/internal/repository"
)

var (
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// Receipt is the confirmation data returned to the success page.
type Receipt struct {
	CustomerEmail string `json:"customer_email"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	PaymentIntent string `json:"payment_intent"`
	ReceiptURL    string `json:"receipt_url"`
}

// ReceiptService finalizes orders after the payment provider reports a
// session as paid.
type ReceiptService struct {
	provider PaymentProvider
	orders   repository.OrderRepository
	notifier notify.Notifier
	baseURL  string
	log      *slog.Logger
}

// NewReceiptService creates a new receipt dispatcher.
func NewReceiptService(provider PaymentProvider, orders repository.OrderRepository, notifier notify.Notifier, baseURL string, log *slog.Logger) *ReceiptService {
	return &ReceiptService{
		provider: provider,
		orders:   orders,
		notifier: notifier,
		baseURL:  baseURL,
		log:      log,
	}
}

// ConfirmPayment handles the success-redirect callback for a session.
// The pending -> paid transition is a conditional update, so replaying the
// callback (redirect URLs get revisited) confirms at most once and never
// re-sends the receipt. Payment confirmation is authoritative: neither a
// missing order row nor a failed notification rolls it back.
func (s *ReceiptService) ConfirmPayment(ctx context.Context, sessionID string) (*Receipt, error) {
	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if sess.PaymentStatus != payment.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	transitioned, err := s.orders.MarkPaid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.log.Warn("paid session has no order record", "session_id", sessionID)
		} else {
			s.log.Error("failed to mark order paid", "session_id", sessionID, "error", err)
		}
		transitioned = false
	}

	receipt := &Receipt{
		CustomerEmail: sess.CustomerEmail,
		AmountTotal:   sess.AmountTotal,
		Currency:      sess.Currency,
		PaymentIntent: sess.PaymentIntentID,
		ReceiptURL:    fmt.Sprintf("%s/receipt/%s", s.baseURL, sessionID),
	}

	if transitioned {
		msg := notify.ReceiptEmail{
			To:          sess.CustomerEmail,
			AmountTotal: sess.AmountTotal,
			Currency:    sess.Currency,
			ReceiptRef:  sess.PaymentIntentID,
			ReceiptURL:  receipt.ReceiptURL,
		}
		if order, oerr := s.orders.GetBySessionID(ctx, sessionID); oerr == nil {
			msg.OrderID = order.ID
		}
		if nerr := s.notifier.SendReceipt(ctx, msg); nerr != nil {
			s.log.Error("failed to dispatch receipt email",
				"session_id", sessionID,
				"to", sess.CustomerEmail,
				"error", nerr,
			)
		}
		s.log.Info("order confirmed", "session_id", sessionID, "amount_total", sess.AmountTotal)
	}

	return receipt, nil
}
