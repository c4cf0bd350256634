package payment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/mocks"
	"github.com/brightblock/tokensale/internal/payment"
	"github.com/brightblock/tokensale/internal/store/schema"
)

const testWallet = "So11111111111111111111111111111111111111112"

type testPaymentMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	provider *mocks.MockPaymentProvider
	service  *payment.Service
}

func setupTestPayment(t *testing.T) *testPaymentMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testPaymentMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		provider: mocks.NewMockPaymentProvider(ctrl),
	}
	tm.service = payment.NewService(tm.store, tm.provider)
	return tm
}

func activeConfig() *schema.TokenConfig {
	return &schema.TokenConfig{
		ID:             1,
		PricePerToken:  decimal.RequireFromString("0.50"),
		MinPurchaseUSD: decimal.RequireFromString("10.00"),
		MaxPurchaseUSD: decimal.RequireFromString("10000.00"),
		TotalSupply:    decimal.RequireFromString("1000000"),
		TokensSold:     decimal.RequireFromString("0"),
		IsActive:       true,
	}
}

func TestCreatePurchase_Success(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	amount := decimal.RequireFromString("25.00")

	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(activeConfig(), nil)
	tm.store.EXPECT().CreateTransaction(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *schema.Transaction) error {
			tx.ID = 42
			assert.Equal(t, "user-1", tx.UserID)
			assert.True(t, tx.TokenAmount.Equal(decimal.RequireFromString("50")))
			assert.Equal(t, domain.PaymentStatusPending, tx.Status)
			return nil
		})
	tm.provider.EXPECT().CreateIntent(ctx, int64(2500), gomock.Any(), gomock.Any()).
		Return(&payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil)
	tm.store.EXPECT().SetPaymentIntentID(ctx, uint64(42), "pi_123").Return(true, nil)

	result, err := tm.service.CreatePurchase(ctx, "user-1", amount, testWallet)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", result.Intent.ClientSecret)
	require.NotNil(t, result.Transaction.StripePaymentIntentID)
	assert.Equal(t, "pi_123", *result.Transaction.StripePaymentIntentID)
}

func TestCreatePurchase_NoActiveConfig(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(nil, nil)

	_, err := tm.service.CreatePurchase(ctx, "user-1", decimal.RequireFromString("25.00"), testWallet)
	assert.ErrorIs(t, err, domain.ErrNoActiveTokenConfig)
}

func TestCreatePurchase_InvalidWallet(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(activeConfig(), nil)

	_, err := tm.service.CreatePurchase(ctx, "user-1", decimal.RequireFromString("25.00"), "not-a-wallet")
	assert.ErrorIs(t, err, domain.ErrInvalidWalletAddress)
}

func TestCreatePurchase_AmountOutOfBounds(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	tests := []struct {
		name   string
		amount string
	}{
		{name: "below minimum", amount: "5.00"},
		{name: "above maximum", amount: "10001.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(activeConfig(), nil)

			_, err := tm.service.CreatePurchase(ctx, "user-1", decimal.RequireFromString(tt.amount), testWallet)
			assert.ErrorIs(t, err, domain.ErrAmountOutOfBounds)
		})
	}
}

func TestCreatePurchase_InsufficientSupply(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	cfg := activeConfig()
	cfg.TotalSupply = decimal.RequireFromString("100")
	cfg.TokensSold = decimal.RequireFromString("80")

	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(cfg, nil)

	// 25 USD at 0.50 buys 50 tokens, only 20 remain
	_, err := tm.service.CreatePurchase(ctx, "user-1", decimal.RequireFromString("25.00"), testWallet)
	assert.ErrorIs(t, err, domain.ErrInsufficientSupply)
}

func TestCreatePurchase_ProviderFailureMarksTransactionFailed(t *testing.T) {
	tm := setupTestPayment(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	providerErr := errors.New("stripe unavailable")

	tm.store.EXPECT().GetActiveTokenConfig(ctx).Return(activeConfig(), nil)
	tm.store.EXPECT().CreateTransaction(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *schema.Transaction) error {
			tx.ID = 7
			return nil
		})
	tm.provider.EXPECT().CreateIntent(ctx, int64(2500), gomock.Any(), gomock.Any()).
		Return(nil, providerErr)
	tm.store.EXPECT().TransitionPayment(ctx, uint64(7),
		domain.PaymentStatusPending, domain.PaymentStatusFailed, providerErr.Error()).
		Return(true, nil)

	_, err := tm.service.CreatePurchase(ctx, "user-1", decimal.RequireFromString("25.00"), testWallet)
	assert.ErrorIs(t, err, providerErr)
}
