package webhook

import (
	"encoding/json"
	"fmt"

	stripewebhook "github.com/stripe/stripe-go/v82/webhook"

	"github.com/brightblock/tokensale/internal/domain"
)

// Event types dispatched by the processor. Anything else is acknowledged and
// ignored.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// Event is the subset of a provider webhook event the processor acts on
type Event struct {
	ID   string
	Type string
	// IntentID is the payment intent the event refers to
	IntentID string
	// FailureMessage carries the provider's failure reason, when present
	FailureMessage string
}

// Verifier authenticates a raw webhook delivery and extracts the event
//
//go:generate mockgen -source=verifier.go -destination=../mocks/webhook_verifier.go -package=mocks -mock_names=Verifier=MockWebhookVerifier
type Verifier interface {
	// VerifyAndParse checks the signature header against the payload and
	// returns the parsed event. A verification failure is reported as
	// domain.ErrWebhookSignature.
	VerifyAndParse(payload []byte, signatureHeader string) (*Event, error)
}

type stripeVerifier struct {
	webhookSecret string
}

// NewStripeVerifier creates a Verifier using Stripe's signed-payload scheme
func NewStripeVerifier(webhookSecret string) Verifier {
	return &stripeVerifier{webhookSecret: webhookSecret}
}

// intentPayload is the fragment of a payment_intent object we read out of the
// event body
type intentPayload struct {
	ID               string `json:"id"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
	CancellationReason string `json:"cancellation_reason"`
}

// VerifyAndParse checks the Stripe-Signature header and extracts the event
func (v *stripeVerifier) VerifyAndParse(payload []byte, signatureHeader string) (*Event, error) {
	stripeEvent, err := stripewebhook.ConstructEvent(payload, signatureHeader, v.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWebhookSignature, err)
	}

	event := &Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}

	var intent intentPayload
	if len(stripeEvent.Data.Raw) > 0 {
		if err := json.Unmarshal(stripeEvent.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to parse event object: %w", err)
		}
	}
	event.IntentID = intent.ID
	if intent.LastPaymentError != nil {
		event.FailureMessage = intent.LastPaymentError.Message
	} else if intent.CancellationReason != "" {
		event.FailureMessage = fmt.Sprintf("payment canceled: %s", intent.CancellationReason)
	}

	return event, nil
}
