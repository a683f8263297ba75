package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techhaven/storefront/internal/cart"
	"github.com/techhaven/storefront/internal/models"
	"github.com/techhaven/storefront/internal/payment"
	"github.com/techhaven/storefront/internal/repository"
)

var (
	ErrEmptyCart       = errors.New("cart must contain at least one item")
	ErrInvalidItem     = errors.New("invalid cart item")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrPaymentProvider = errors.New("payment provider request failed")
	ErrPersistence     = errors.New("order could not be persisted")
)

// PaymentProvider is the surface of the hosted payment backend the checkout
// and confirmation flows depend on.
type PaymentProvider interface {
	EnsureCustomer(ctx context.Context, email, name string) (string, error)
	CreateSession(ctx context.Context, spec payment.SessionSpec) (*payment.Session, error)
	GetSession(ctx context.Context, id string) (*payment.Session, error)
}

// CheckoutConfig holds the provider-facing checkout settings.
type CheckoutConfig struct {
	// SuccessURL must carry the provider's session placeholder so the
	// confirmation page can identify the session on return.
	SuccessURL       string
	CancelURL        string
	Currency         string
	AllowedCountries []string
}

// CheckoutService orchestrates cart -> checkout session -> pending order.
type CheckoutService struct {
	provider PaymentProvider
	orders   repository.OrderRepository
	cfg      CheckoutConfig
	log      *slog.Logger
}

// NewCheckoutService creates a new checkout orchestrator.
func NewCheckoutService(provider PaymentProvider, orders repository.OrderRepository, cfg CheckoutConfig, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		provider: provider,
		orders:   orders,
		cfg:      cfg,
		log:      log,
	}
}

// Checkout creates a hosted payment session for the cart and durably records
// a pending order tagged with the session ID before handing back the
// redirect URL. Validation happens before any network call; a persistence
// failure after session creation fails the checkout rather than silently
// producing a payment with no order behind it.
func (s *CheckoutService) Checkout(ctx context.Context, c *cart.Cart, info models.CustomerInfo) (string, error) {
	if c == nil || c.Len() == 0 {
		return "", ErrEmptyCart
	}
	if !validEmail(info.Email) {
		return "", ErrInvalidEmail
	}

	items := c.Items()
	for _, item := range items {
		if item.Product.Name == "" {
			return "", fmt.Errorf("%w: missing name for product %q", ErrInvalidItem, item.Product.ID)
		}
		if item.Product.Price < 0 {
			return "", fmt.Errorf("%w: negative price for product %q", ErrInvalidItem, item.Product.ID)
		}
		if item.Quantity < 1 {
			return "", fmt.Errorf("%w: quantity %d for product %q", ErrInvalidItem, item.Quantity, item.Product.ID)
		}
	}

	customerID, err := s.provider.EnsureCustomer(ctx, info.Email, info.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	orderID := uuid.New().String()

	lineItems := make([]payment.LineItem, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))
	var amountTotal int64
	for _, item := range items {
		unitAmount := cart.UnitAmountCents(item.Product.Price)
		lineItems = append(lineItems, payment.LineItem{
			Name:       item.Product.Name,
			ImageURL:   item.Product.ImageURL,
			UnitAmount: unitAmount,
			Quantity:   int64(item.Quantity),
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
		amountTotal += unitAmount * int64(item.Quantity)
	}

	sess, err := s.provider.CreateSession(ctx, payment.SessionSpec{
		CustomerID:       customerID,
		LineItems:        lineItems,
		Currency:         s.cfg.Currency,
		SuccessURL:       s.cfg.SuccessURL,
		CancelURL:        s.cfg.CancelURL,
		AllowedCountries: s.cfg.AllowedCountries,
		IdempotencyKey:   orderID,
		OrderRef:         orderID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	now := time.Now()
	order := &models.Order{
		ID:            orderID,
		SessionID:     sess.ID,
		Email:         info.Email,
		Name:          info.Name,
		Phone:         info.Phone,
		Address:       info.Address,
		DeliveryNotes: info.DeliveryNotes,
		Items:         orderItems,
		AmountTotal:   amountTotal,
		Currency:      s.cfg.Currency,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The pending order must exist before the customer reaches the payment
	// page; the confirmation callback has nothing to update otherwise.
	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error("failed to persist pending order",
			"order_id", orderID,
			"session_id", sess.ID,
			"error", err,
		)
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.log.Info("checkout session created",
		"order_id", orderID,
		"session_id", sess.ID,
		"amount_total", amountTotal,
		"items_count", len(orderItems),
	)

	return sess.URL, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
