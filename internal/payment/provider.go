package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
)

// Intent is the subset of the provider's PaymentIntent the storefront needs
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider abstracts the payment provider so handlers and tests never touch
// the Stripe SDK directly. The concrete client is injected at process start,
// never created mid-request.
//
//go:generate mockgen -source=provider.go -destination=../mocks/payment_provider.go -package=mocks -mock_names=Provider=MockPaymentProvider
type Provider interface {
	// CreateIntent creates a payment intent for the given amount in cents (USD).
	// idempotencyKey makes retried calls safe against double-charging.
	CreateIntent(ctx context.Context, amountCents int64, idempotencyKey string, metadata map[string]string) (*Intent, error)
}

type stripeProvider struct {
	api *stripeclient.API
}

// NewStripeProvider creates a Provider backed by the Stripe API
func NewStripeProvider(secretKey string) Provider {
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &stripeProvider{api: api}
}

// CreateIntent creates a Stripe PaymentIntent in USD
func (p *stripeProvider) CreateIntent(ctx context.Context, amountCents int64, idempotencyKey string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
