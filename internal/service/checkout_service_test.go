package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/techhaven/storefront/internal/cart"
	"github.com/techhaven/storefront/internal/models"
	"github.com/techhaven/storefront/internal/payment"
	"github.com/techhaven/storefront/internal/repository"
	"github.com/techhaven/storefront/pkg/logger"
)

// fakeProvider records calls and can be told to fail.
type fakeProvider struct {
	customers       map[string]string // email -> customer ID
	createdSessions []payment.SessionSpec
	session         *payment.Session
	failCustomer    bool
	failCreate      bool
	customerCalls   int
	createCalls     int
	getCalls        int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		customers: make(map[string]string),
		session: &payment.Session{
			ID:  "cs_test_123",
			URL: "https://checkout.example.com/pay/cs_test_123",
		},
	}
}

func (p *fakeProvider) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	p.customerCalls++
	if p.failCustomer {
		return "", errors.New("provider unreachable")
	}
	if id, ok := p.customers[email]; ok {
		return id, nil
	}
	id := fmt.Sprintf("cus_%d", len(p.customers)+1)
	p.customers[email] = id
	return id, nil
}

func (p *fakeProvider) CreateSession(ctx context.Context, spec payment.SessionSpec) (*payment.Session, error) {
	p.createCalls++
	if p.failCreate {
		return nil, errors.New("provider unreachable")
	}
	p.createdSessions = append(p.createdSessions, spec)
	return p.session, nil
}

func (p *fakeProvider) GetSession(ctx context.Context, id string) (*payment.Session, error) {
	p.getCalls++
	return p.session, nil
}

// failingOrderRepo wraps the in-memory repo and fails writes.
type failingOrderRepo struct {
	*repository.InMemoryOrderRepository
}

func (r *failingOrderRepo) Create(ctx context.Context, order *models.Order) error {
	return errors.New("database write failed")
}

func testCustomer() models.CustomerInfo {
	return models.CustomerInfo{
		Email: "buyer@example.com",
		Name:  "Jordan Reyes",
		Phone: "555-0134",
		Address: models.Address{
			Street:  "123 Main Street",
			City:    "New York",
			State:   "NY",
			ZipCode: "10001",
		},
	}
}

func testCart() *cart.Cart {
	c := cart.New()
	p1 := models.Product{ID: "1", Name: "Widget", Price: 10.00}
	c.AddItem(p1)
	c.AddItem(p1)
	c.AddItem(models.Product{ID: "2", Name: "Gadget", Price: 5.50})
	return c
}

func newCheckoutService(provider PaymentProvider, orders repository.OrderRepository) *CheckoutService {
	return NewCheckoutService(provider, orders, CheckoutConfig{
		SuccessURL:       "https://shop.example.com/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        "https://shop.example.com/payment-canceled",
		Currency:         "usd",
		AllowedCountries: []string{"US", "CA"},
	}, logger.New("error"))
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	provider := newFakeProvider()
	orders := repository.NewInMemoryOrderRepository()
	svc := newCheckoutService(provider, orders)

	tests := []struct {
		name string
		cart *cart.Cart
	}{
		{name: "nil cart", cart: nil},
		{name: "zero items", cart: cart.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), tt.cart, testCustomer())
			if !errors.Is(err, ErrEmptyCart) {
				t.Errorf("Checkout() error = %v, want ErrEmptyCart", err)
			}
		})
	}

	// Validation failures must never reach the provider
	if provider.customerCalls != 0 || provider.createCalls != 0 {
		t.Errorf("provider called on empty cart: customers=%d sessions=%d",
			provider.customerCalls, provider.createCalls)
	}
}

func TestCheckoutService_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		cart    func() *cart.Cart
		info    models.CustomerInfo
		wantErr error
	}{
		{
			name:    "missing email",
			cart:    testCart,
			info:    models.CustomerInfo{Name: "No Email"},
			wantErr: ErrInvalidEmail,
		},
		{
			name: "item without name",
			cart: func() *cart.Cart {
				c := cart.New()
				c.AddItem(models.Product{ID: "1", Price: 10.00})
				return c
			},
			info:    testCustomer(),
			wantErr: ErrInvalidItem,
		},
		{
			name: "negative price",
			cart: func() *cart.Cart {
				c := cart.New()
				c.AddItem(models.Product{ID: "1", Name: "Broken", Price: -1.00})
				return c
			},
			info:    testCustomer(),
			wantErr: ErrInvalidItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeProvider()
			svc := newCheckoutService(provider, repository.NewInMemoryOrderRepository())

			_, err := svc.Checkout(context.Background(), tt.cart(), tt.info)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Checkout() error = %v, want %v", err, tt.wantErr)
			}
			if provider.customerCalls != 0 {
				t.Error("provider called before validation passed")
			}
		})
	}
}

func TestCheckoutService_Success(t *testing.T) {
	provider := newFakeProvider()
	orders := repository.NewInMemoryOrderRepository()
	svc := newCheckoutService(provider, orders)

	url, err := svc.Checkout(context.Background(), testCart(), testCustomer())
	if err != nil {
		t.Fatalf("Checkout() unexpected error: %v", err)
	}
	if url != provider.session.URL {
		t.Errorf("url = %s, want %s", url, provider.session.URL)
	}

	// Line items carry minor-unit amounts rounded to the nearest cent
	if len(provider.createdSessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(provider.createdSessions))
	}
	spec := provider.createdSessions[0]
	if len(spec.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(spec.LineItems))
	}
	if spec.LineItems[0].UnitAmount != 1000 || spec.LineItems[0].Quantity != 2 {
		t.Errorf("line item 0 = {%d, %d}, want {1000, 2}",
			spec.LineItems[0].UnitAmount, spec.LineItems[0].Quantity)
	}
	if spec.LineItems[1].UnitAmount != 550 || spec.LineItems[1].Quantity != 1 {
		t.Errorf("line item 1 = {%d, %d}, want {550, 1}",
			spec.LineItems[1].UnitAmount, spec.LineItems[1].Quantity)
	}
	if spec.IdempotencyKey == "" {
		t.Error("expected idempotency key on session creation")
	}

	// The pending order must exist, tagged with the session ID
	order, err := orders.GetBySessionID(context.Background(), provider.session.ID)
	if err != nil {
		t.Fatalf("pending order not persisted: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("order status = %s, want pending", order.Status)
	}
	if order.AmountTotal != 2550 {
		t.Errorf("order amount = %d, want 2550", order.AmountTotal)
	}
	if len(order.Items) != 2 {
		t.Errorf("order items = %d, want 2", len(order.Items))
	}
	if order.Email != "buyer@example.com" {
		t.Errorf("order email = %s", order.Email)
	}
}

func TestCheckoutService_ReusesExistingCustomer(t *testing.T) {
	provider := newFakeProvider()
	provider.customers["buyer@example.com"] = "cus_existing"
	orders := repository.NewInMemoryOrderRepository()
	svc := newCheckoutService(provider, orders)

	if _, err := svc.Checkout(context.Background(), testCart(), testCustomer()); err != nil {
		t.Fatalf("Checkout() unexpected error: %v", err)
	}

	if len(provider.customers) != 1 {
		t.Errorf("expected no new customer records, got %d", len(provider.customers))
	}
	if provider.createdSessions[0].CustomerID != "cus_existing" {
		t.Errorf("session customer = %s, want cus_existing", provider.createdSessions[0].CustomerID)
	}
}

func TestCheckoutService_ProviderFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fakeProvider)
	}{
		{name: "customer lookup fails", setup: func(p *fakeProvider) { p.failCustomer = true }},
		{name: "session creation fails", setup: func(p *fakeProvider) { p.failCreate = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeProvider()
			tt.setup(provider)
			orders := repository.NewInMemoryOrderRepository()
			svc := newCheckoutService(provider, orders)

			_, err := svc.Checkout(context.Background(), testCart(), testCustomer())
			if !errors.Is(err, ErrPaymentProvider) {
				t.Errorf("Checkout() error = %v, want ErrPaymentProvider", err)
			}

			// No order may be left behind for a session that was never minted
			if _, err := orders.GetBySessionID(context.Background(), "cs_test_123"); !errors.Is(err, repository.ErrOrderNotFound) {
				t.Error("order persisted despite provider failure")
			}
		})
	}
}

func TestCheckoutService_PersistenceFailureFailsCheckout(t *testing.T) {
	provider := newFakeProvider()
	orders := &failingOrderRepo{repository.NewInMemoryOrderRepository()}
	svc := newCheckoutService(provider, orders)

	_, err := svc.Checkout(context.Background(), testCart(), testCustomer())
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Checkout() error = %v, want ErrPersistence", err)
	}
}
