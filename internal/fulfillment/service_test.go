package fulfillment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/fulfillment"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/mocks"
	"github.com/brightblock/tokensale/internal/solana"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
)

const recipientWallet = "So11111111111111111111111111111111111111112"

type testFulfillmentMocks struct {
	ctrl        *gomock.Controller
	store       *mocks.MockStore
	transferrer *mocks.MockTransferrer
	clock       *mocks.MockClock
	service     *fulfillment.Service
	now         time.Time
}

func setupTestFulfillment(t *testing.T) *testFulfillmentMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testFulfillmentMocks{
		ctrl:        ctrl,
		store:       mocks.NewMockStore(ctrl),
		transferrer: mocks.NewMockTransferrer(ctrl),
		clock:       mocks.NewMockClock(ctrl),
		now:         time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	tm.clock.EXPECT().Now().Return(tm.now).AnyTimes()
	tm.service = fulfillment.NewService(tm.store, tm.transferrer, tm.clock, 9)
	return tm
}

func processingTx(id uint64) *schema.Transaction {
	return &schema.Transaction{
		ID:                     id,
		UserID:                 "user-1",
		TokenAmount:            decimal.RequireFromString("50"),
		RecipientWalletAddress: recipientWallet,
		Status:                 domain.PaymentStatusProcessing,
		BlockchainStatus:       domain.BlockchainStatusPending,
		FulfillmentStatus:      domain.FulfillmentStatusPending,
	}
}

func TestFulfill_Success(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tx := processingTx(5)

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(5)).Return(tx, nil)
	tm.store.EXPECT().MarkTransferInFlight(ctx, uint64(5)).Return(true, nil)
	tm.store.EXPECT().CompleteFulfillment(ctx, uint64(5), store.CompleteFulfillmentParams{
		Signature:     "sig_abc",
		Confirmations: 32,
		Notes:         "sent from ops wallet",
		Now:           tm.now,
	}).Return(true, nil)
	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(&schema.TokenConfig{ID: 1}, nil)
	tm.store.EXPECT().AddTokensSold(ctx, uint64(1), tx.TokenAmount).Return(nil)
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(5)).
		Return(&schema.Transaction{ID: 5, Status: domain.PaymentStatusCompleted}, nil)

	result, err := tm.service.Fulfill(ctx, 5, "sig_abc", 32, "sent from ops wallet")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
}

func TestFulfill_MissingSignature(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	_, err := tm.service.Fulfill(context.Background(), 5, "", 0, "")
	assert.Error(t, err)
}

func TestFulfill_NotFound(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(99)).Return(nil, nil)

	_, err := tm.service.Fulfill(ctx, 99, "sig", 1, "")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestFulfill_AlreadyCompleted(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(5)).
		Return(&schema.Transaction{ID: 5, Status: domain.PaymentStatusCompleted}, nil)

	_, err := tm.service.Fulfill(ctx, 5, "sig", 1, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestFulfill_GuardMiss(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tx := processingTx(5)
	tx.BlockchainStatus = domain.BlockchainStatusProcessing

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(5)).Return(tx, nil)
	tm.store.EXPECT().CompleteFulfillment(ctx, uint64(5), gomock.Any()).Return(false, nil)

	_, err := tm.service.Fulfill(ctx, 5, "sig", 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransfer_Success(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tx := processingTx(7)

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(7)).Return(tx, nil)
	tm.store.EXPECT().MarkTransferInFlight(ctx, uint64(7)).Return(true, nil)
	// 50 tokens at 9 decimals
	tm.transferrer.EXPECT().Transfer(ctx, recipientWallet, uint64(50_000_000_000)).
		Return(&solana.TransferResult{Signature: "sig_chain", Confirmations: 32}, nil)
	tm.store.EXPECT().CompleteFulfillment(ctx, uint64(7), store.CompleteFulfillmentParams{
		Signature:     "sig_chain",
		Confirmations: 32,
		Now:           tm.now,
	}).Return(true, nil)
	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(&schema.TokenConfig{ID: 1}, nil)
	tm.store.EXPECT().AddTokensSold(ctx, uint64(1), tx.TokenAmount).Return(nil)
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(7)).
		Return(&schema.Transaction{ID: 7, Status: domain.PaymentStatusCompleted}, nil)

	result, err := tm.service.Transfer(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
}

func TestTransfer_RequiresProcessingStatus(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tx := processingTx(7)
	tx.Status = domain.PaymentStatusPending

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(7)).Return(tx, nil)

	_, err := tm.service.Transfer(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransfer_InFlightGuardBlocksSecondCaller(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(7)).Return(processingTx(7), nil)
	tm.store.EXPECT().MarkTransferInFlight(ctx, uint64(7)).Return(false, nil)

	_, err := tm.service.Transfer(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransfer_OnChainFailureMarksFailed(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	chainErr := errors.New("blockhash not found")

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(7)).Return(processingTx(7), nil)
	tm.store.EXPECT().MarkTransferInFlight(ctx, uint64(7)).Return(true, nil)
	tm.transferrer.EXPECT().Transfer(ctx, recipientWallet, uint64(50_000_000_000)).
		Return(nil, chainErr)
	tm.store.EXPECT().FailFulfillment(ctx, uint64(7), chainErr.Error()).Return(true, nil)

	_, err := tm.service.Transfer(ctx, 7)
	assert.ErrorIs(t, err, chainErr)
}

func TestRetry(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	failed := &schema.Transaction{ID: 8, Status: domain.PaymentStatusFailed}

	tm.store.EXPECT().GetTransactionByID(ctx, uint64(8)).Return(failed, nil)
	tm.store.EXPECT().ResetForRetry(ctx, uint64(8)).Return(true, nil)
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(8)).
		Return(&schema.Transaction{ID: 8, Status: domain.PaymentStatusPending}, nil)

	result, err := tm.service.Retry(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
}

func TestRetry_OnlyFailedIsEligible(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetTransactionByID(ctx, uint64(8)).Return(processingTx(8), nil)
	tm.store.EXPECT().ResetForRetry(ctx, uint64(8)).Return(false, nil)

	_, err := tm.service.Retry(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOverrideStatus(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	t.Run("processing to failed", func(t *testing.T) {
		ctx := context.Background()
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).Return(processingTx(9), nil)
		tm.store.EXPECT().FailFulfillment(ctx, uint64(9), "chargeback").Return(true, nil)
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).
			Return(&schema.Transaction{ID: 9, Status: domain.PaymentStatusFailed}, nil)

		result, err := tm.service.OverrideStatus(ctx, 9, domain.PaymentStatusFailed, "chargeback")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, result.Status)
	})

	t.Run("failed back to pending", func(t *testing.T) {
		ctx := context.Background()
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).
			Return(&schema.Transaction{ID: 9, Status: domain.PaymentStatusFailed}, nil)
		tm.store.EXPECT().ResetForRetry(ctx, uint64(9)).Return(true, nil)
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).
			Return(&schema.Transaction{ID: 9, Status: domain.PaymentStatusPending}, nil)

		_, err := tm.service.OverrideStatus(ctx, 9, domain.PaymentStatusPending, "")
		assert.NoError(t, err)
	})

	t.Run("completed needs a signature", func(t *testing.T) {
		ctx := context.Background()
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).Return(processingTx(9), nil)

		_, err := tm.service.OverrideStatus(ctx, 9, domain.PaymentStatusCompleted, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("disallowed edge", func(t *testing.T) {
		ctx := context.Background()
		tm.store.EXPECT().GetTransactionByID(ctx, uint64(9)).
			Return(&schema.Transaction{ID: 9, Status: domain.PaymentStatusCompleted}, nil)

		_, err := tm.service.OverrideStatus(ctx, 9, domain.PaymentStatusFailed, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := tm.service.OverrideStatus(context.Background(), 9, domain.PaymentStatus("bogus"), "")
		assert.Error(t, err)
	})
}

func TestListPending(t *testing.T) {
	tm := setupTestFulfillment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	rows := []*schema.Transaction{processingTx(1), processingTx(2)}
	tm.store.EXPECT().ListTransactionsByStatus(ctx, domain.PaymentStatusProcessing, 20, uint64(0)).
		Return(rows, int64(2), nil)

	result, total, err := tm.service.ListPending(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), total)
}
