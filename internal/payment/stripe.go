package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider talks to Stripe's Checkout and Customers APIs. The hosted
// checkout page handles card capture; this client never sees card data.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe client with the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// EnsureCustomer returns the Stripe customer ID for the email, creating the
// customer if none exists. Lookup-then-create keeps repeat buyers from
// accumulating duplicate customer records.
func (p *StripeProvider) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	it := p.api.Customers.List(listParams)
	for it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		createParams.Name = stripe.String(name)
	}
	createParams.Context = ctx

	cust, err := p.api.Customers.New(createParams)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cust.ID, nil
}

// CreateSession creates a hosted checkout session and returns its redirect
// URL alongside the session identifier.
func (p *StripeProvider) CreateSession(ctx context.Context, spec SessionSpec) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(spec.SuccessURL),
		CancelURL:                stripe.String(spec.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
	}
	params.Context = ctx

	if spec.CustomerID != "" {
		params.Customer = stripe.String(spec.CustomerID)
	}
	if len(spec.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(spec.AllowedCountries),
		}
	}
	if spec.OrderRef != "" {
		params.AddMetadata("order_id", spec.OrderRef)
	}
	if spec.IdempotencyKey != "" {
		params.SetIdempotencyKey(spec.IdempotencyKey)
	}

	for _, li := range spec.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{li.ImageURL})
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(spec.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return fromStripeSession(sess), nil
}

// GetSession retrieves a checkout session by identifier.
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *Session {
	s := &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
	}
	if sess.CustomerDetails != nil {
		s.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.PaymentIntent != nil {
		s.PaymentIntentID = sess.PaymentIntent.ID
	}
	return s
}
