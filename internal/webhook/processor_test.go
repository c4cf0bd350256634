package webhook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/mocks"
	"github.com/brightblock/tokensale/internal/store/schema"
	"github.com/brightblock/tokensale/internal/webhook"
)

type testProcessorMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	verifier  *mocks.MockWebhookVerifier
	processor *webhook.Processor
}

func setupTestProcessor(t *testing.T) *testProcessorMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testProcessorMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		verifier: mocks.NewMockWebhookVerifier(ctrl),
	}
	tm.processor = webhook.NewProcessor(tm.store, tm.verifier)
	return tm
}

func TestProcess_PaymentSucceeded(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_1"}`)
	event := &webhook.Event{ID: "evt_1", Type: webhook.EventPaymentSucceeded, IntentID: "pi_1"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 10
			assert.Equal(t, "evt_1", row.EventID)
			assert.Equal(t, schema.WebhookProcessingStatusPending, row.ProcessingStatus)
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_1").
		Return(&schema.Transaction{ID: 5, Status: domain.PaymentStatusPending}, nil)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(5),
		domain.PaymentStatusPending, domain.PaymentStatusProcessing, "").
		Return(true, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(10),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_PaymentFailedUsesProviderMessage(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_2"}`)
	event := &webhook.Event{
		ID:             "evt_2",
		Type:           webhook.EventPaymentFailed,
		IntentID:       "pi_2",
		FailureMessage: "card declined",
	}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 11
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_2").
		Return(&schema.Transaction{ID: 6, Status: domain.PaymentStatusPending}, nil)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(6),
		domain.PaymentStatusPending, domain.PaymentStatusFailed, "card declined").
		Return(true, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(11),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_CanceledWithoutMessageGetsDefaultReason(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_3"}`)
	event := &webhook.Event{ID: "evt_3", Type: webhook.EventPaymentCanceled, IntentID: "pi_3"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 12
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_3").
		Return(&schema.Transaction{ID: 7, Status: domain.PaymentStatusPending}, nil)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(7),
		domain.PaymentStatusPending, domain.PaymentStatusFailed,
		"payment provider reported payment_intent.canceled").
		Return(true, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(12),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_SignatureFailure(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{}`)

	tm.verifier.EXPECT().VerifyAndParse(payload, "bad").
		Return(nil, domain.ErrWebhookSignature)

	err := tm.processor.Process(ctx, payload, "bad")
	assert.ErrorIs(t, err, domain.ErrWebhookSignature)
}

func TestProcess_RedeliveredProcessedEventIsAcked(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_4"}`)
	event := &webhook.Event{ID: "evt_4", Type: webhook.EventPaymentSucceeded, IntentID: "pi_4"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		Return(errors.New("Error 1062: Duplicate entry"))
	tm.store.EXPECT().GetWebhookLogByEventID(ctx, "evt_4").
		Return(&schema.WebhookLog{
			ID:               13,
			EventID:          "evt_4",
			ProcessingStatus: schema.WebhookProcessingStatusProcessed,
		}, nil)

	// No dispatch, no transition: the event was already handled.
	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_RedeliveredFailedEventIsRedispatched(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_5"}`)
	event := &webhook.Event{ID: "evt_5", Type: webhook.EventPaymentSucceeded, IntentID: "pi_5"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		Return(errors.New("Error 1062: Duplicate entry"))
	tm.store.EXPECT().GetWebhookLogByEventID(ctx, "evt_5").
		Return(&schema.WebhookLog{
			ID:               14,
			EventID:          "evt_5",
			ProcessingStatus: schema.WebhookProcessingStatusFailed,
		}, nil)
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_5").
		Return(&schema.Transaction{ID: 8, Status: domain.PaymentStatusPending}, nil)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(8),
		domain.PaymentStatusPending, domain.PaymentStatusProcessing, "").
		Return(true, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(14),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_UnknownIntentIsAcked(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_6"}`)
	event := &webhook.Event{ID: "evt_6", Type: webhook.EventPaymentSucceeded, IntentID: "pi_unknown"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 15
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_unknown").Return(nil, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(15),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_TransitionGuardMissIsANoOp(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_7"}`)
	event := &webhook.Event{ID: "evt_7", Type: webhook.EventPaymentSucceeded, IntentID: "pi_7"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 16
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_7").
		Return(&schema.Transaction{ID: 9, Status: domain.PaymentStatusCompleted}, nil)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(9),
		domain.PaymentStatusPending, domain.PaymentStatusProcessing, "").
		Return(false, nil)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(16),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_UnhandledEventTypeIsAcked(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_8"}`)
	event := &webhook.Event{ID: "evt_8", Type: "charge.refunded"}

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 17
			return nil
		})
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(17),
		schema.WebhookProcessingStatusProcessed, "").
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.NoError(t, err)
}

func TestProcess_DispatchErrorFinalizesFailed(t *testing.T) {
	tm := setupTestProcessor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	payload := []byte(`{"id":"evt_9"}`)
	event := &webhook.Event{ID: "evt_9", Type: webhook.EventPaymentSucceeded, IntentID: "pi_9"}
	storeErr := errors.New("connection reset")

	tm.verifier.EXPECT().VerifyAndParse(payload, "sig").Return(event, nil)
	tm.store.EXPECT().CreateWebhookLog(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.WebhookLog) error {
			row.ID = 18
			return nil
		})
	tm.store.EXPECT().GetTransactionByIntentID(ctx, "pi_9").Return(nil, storeErr)
	tm.store.EXPECT().FinalizeWebhookLog(ctx, uint64(18),
		schema.WebhookProcessingStatusFailed, storeErr.Error()).
		Return(nil)

	err := tm.processor.Process(ctx, payload, "sig")
	assert.ErrorIs(t, err, storeErr)
}
