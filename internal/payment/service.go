package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
)

// PurchaseResult is returned to the caller after a successful create-intent
type PurchaseResult struct {
	Transaction *schema.Transaction
	Intent      *Intent
}

// Service creates purchase transactions backed by provider payment intents
type Service struct {
	store    store.Store
	provider Provider
}

// NewService creates a new payment service
func NewService(st store.Store, provider Provider) *Service {
	return &Service{store: st, provider: provider}
}

// CreatePurchase validates the request against the active token configuration,
// creates a pending transaction and a provider payment intent for it.
//
// If the provider call fails the transaction is moved to failed; the intent id
// is only persisted after the provider returned it, so a row never reports
// success with a missing intent id.
func (s *Service) CreatePurchase(ctx context.Context, userID string, usdAmount decimal.Decimal, walletAddress string) (*PurchaseResult, error) {
	cfg, err := s.store.GetActiveTokenConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNoActiveTokenConfig
	}

	if err := domain.ValidateWalletAddress(walletAddress); err != nil {
		return nil, err
	}

	if usdAmount.LessThan(cfg.MinPurchaseUSD) || usdAmount.GreaterThan(cfg.MaxPurchaseUSD) {
		return nil, fmt.Errorf("%w: %s outside %s-%s USD",
			domain.ErrAmountOutOfBounds, usdAmount, cfg.MinPurchaseUSD, cfg.MaxPurchaseUSD)
	}

	tokenAmount, err := domain.TokensForUSD(usdAmount, cfg.PricePerToken)
	if err != nil {
		return nil, err
	}
	if tokenAmount.GreaterThan(cfg.Remaining()) {
		return nil, fmt.Errorf("%w: %s tokens requested, %s remaining",
			domain.ErrInsufficientSupply, tokenAmount, cfg.Remaining())
	}

	amountCents, err := domain.USDToCents(usdAmount)
	if err != nil {
		return nil, err
	}

	tx := &schema.Transaction{
		UUID:                   uuid.NewString(),
		UserID:                 userID,
		AmountUSD:              usdAmount,
		TokenAmount:            tokenAmount,
		TokenPriceAtPurchase:   cfg.PricePerToken,
		RecipientWalletAddress: walletAddress,
		Status:                 domain.PaymentStatusPending,
		BlockchainStatus:       domain.BlockchainStatusPending,
		FulfillmentStatus:      domain.FulfillmentStatusPending,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	intent, err := s.provider.CreateIntent(ctx, amountCents, ulid.Make().String(), map[string]string{
		"transaction_id":   strconv.FormatUint(tx.ID, 10),
		"transaction_uuid": tx.UUID,
		"user_id":          userID,
	})
	if err != nil {
		// Roll the row over to failed so it never reports success without an
		// intent id. The guarded update cannot race with webhooks here because
		// no intent id exists yet for the provider to reference.
		if _, ferr := s.store.TransitionPayment(ctx, tx.ID, domain.PaymentStatusPending, domain.PaymentStatusFailed, err.Error()); ferr != nil {
			logger.ErrorCtx(ctx, ferr, zap.Uint64("transaction_id", tx.ID))
		}
		return nil, fmt.Errorf("payment provider rejected intent creation: %w", err)
	}

	ok, err := s.store.SetPaymentIntentID(ctx, tx.ID, intent.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("transaction %d already has a payment intent", tx.ID)
	}

	tx.StripePaymentIntentID = &intent.ID
	logger.InfoCtx(ctx, "Created payment intent",
		zap.Uint64("transaction_id", tx.ID),
		zap.String("intent_id", intent.ID),
		zap.String("amount_usd", usdAmount.String()),
		zap.String("token_amount", tokenAmount.String()),
	)

	return &PurchaseResult{Transaction: tx, Intent: intent}, nil
}
