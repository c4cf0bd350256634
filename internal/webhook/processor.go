package webhook

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
)

// Processor reconciles inbound provider webhook events against transactions.
//
// Every verified event is appended to the webhook log before dispatch, and the
// log row is always finalized (processed or failed) even when the handler
// errors or panics - a delivery must never be silently lost. Dispatch relies
// on guarded status transitions, so a re-delivered event is a safe no-op.
type Processor struct {
	store    store.Store
	verifier Verifier
}

// NewProcessor creates a new webhook processor
func NewProcessor(st store.Store, verifier Verifier) *Processor {
	return &Processor{store: st, verifier: verifier}
}

// Process verifies, logs and dispatches one webhook delivery.
//
// A signature failure returns domain.ErrWebhookSignature with no state change.
// An event referencing an unknown intent is logged and acknowledged; the
// provider must not retry an event we consciously cannot map.
func (p *Processor) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := p.verifier.VerifyAndParse(payload, signatureHeader)
	if err != nil {
		return err
	}

	logRow := &schema.WebhookLog{
		EventID:          event.ID,
		EventType:        event.Type,
		Payload:          datatypes.JSON(payload),
		ProcessingStatus: schema.WebhookProcessingStatusPending,
	}
	if err := p.store.CreateWebhookLog(ctx, logRow); err != nil {
		// The event id is unique; a conflict means the provider re-delivered an
		// event we already logged. Re-dispatch is safe, re-logging is not.
		existing, getErr := p.store.GetWebhookLogByEventID(ctx, event.ID)
		if getErr != nil || existing == nil {
			return fmt.Errorf("failed to log webhook event %s: %w", event.ID, err)
		}
		if existing.ProcessingStatus == schema.WebhookProcessingStatusProcessed {
			logger.InfoCtx(ctx, "Ignoring re-delivered webhook event",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.Type),
			)
			return nil
		}
		logRow = existing
	}

	dispatchErr := p.dispatch(ctx, event)

	status := schema.WebhookProcessingStatusProcessed
	errorMessage := ""
	if dispatchErr != nil {
		status = schema.WebhookProcessingStatusFailed
		errorMessage = dispatchErr.Error()
	}
	if err := p.store.FinalizeWebhookLog(ctx, logRow.ID, status, errorMessage); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("event_id", event.ID))
	}

	return dispatchErr
}

// dispatch routes the event to its state-machine edge. A panic in a handler is
// converted to an error so the caller still finalizes the log row.
func (p *Processor) dispatch(ctx context.Context, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webhook handler panic: %v", r)
		}
	}()

	switch event.Type {
	case EventPaymentSucceeded:
		return p.handlePaymentSucceeded(ctx, event)
	case EventPaymentFailed, EventPaymentCanceled:
		return p.handlePaymentFailed(ctx, event)
	default:
		logger.DebugCtx(ctx, "Ignoring unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}
}

func (p *Processor) handlePaymentSucceeded(ctx context.Context, event *Event) error {
	tx, err := p.store.GetTransactionByIntentID(ctx, event.IntentID)
	if err != nil {
		return err
	}
	if tx == nil {
		logger.WarnCtx(ctx, "Webhook references unknown payment intent",
			zap.String("event_id", event.ID),
			zap.String("intent_id", event.IntentID),
		)
		return nil
	}

	ok, err := p.store.TransitionPayment(ctx, tx.ID, domain.PaymentStatusPending, domain.PaymentStatusProcessing, "")
	if err != nil {
		return err
	}
	if !ok {
		// Guarded update did not fire: the row already moved past pending,
		// typically a webhook re-delivery. Nothing to do.
		logger.InfoCtx(ctx, "Payment success event had no effect",
			zap.Uint64("transaction_id", tx.ID),
			zap.String("status", string(tx.Status)),
			zap.String("event_id", event.ID),
		)
		return nil
	}

	logger.InfoCtx(ctx, "Payment succeeded, transaction awaiting fulfillment",
		zap.Uint64("transaction_id", tx.ID),
		zap.String("intent_id", event.IntentID),
	)
	return nil
}

func (p *Processor) handlePaymentFailed(ctx context.Context, event *Event) error {
	tx, err := p.store.GetTransactionByIntentID(ctx, event.IntentID)
	if err != nil {
		return err
	}
	if tx == nil {
		logger.WarnCtx(ctx, "Webhook references unknown payment intent",
			zap.String("event_id", event.ID),
			zap.String("intent_id", event.IntentID),
		)
		return nil
	}

	message := event.FailureMessage
	if message == "" {
		message = fmt.Sprintf("payment provider reported %s", event.Type)
	}

	ok, err := p.store.TransitionPayment(ctx, tx.ID, domain.PaymentStatusPending, domain.PaymentStatusFailed, message)
	if err != nil {
		return err
	}
	if !ok {
		logger.InfoCtx(ctx, "Payment failure event had no effect",
			zap.Uint64("transaction_id", tx.ID),
			zap.String("status", string(tx.Status)),
			zap.String("event_id", event.ID),
		)
		return nil
	}

	logger.InfoCtx(ctx, "Payment failed",
		zap.Uint64("transaction_id", tx.ID),
		zap.String("intent_id", event.IntentID),
		zap.String("reason", message),
	)
	return nil
}
