package fulfillment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brightblock/tokensale/internal/adapter"
	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/solana"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
)

// Transferrer submits an on-chain token transfer and waits for confirmation
//
//go:generate mockgen -source=service.go -destination=../mocks/fulfillment.go -package=mocks -mock_names=Transferrer=MockTransferrer
type Transferrer interface {
	Transfer(ctx context.Context, recipientWallet string, baseUnits uint64) (*solana.TransferResult, error)
}

// Service owns token delivery for paid purchases: the automated on-chain
// transfer path and the manual admin paths for recording, retrying and
// overriding delivery state.
type Service struct {
	store        store.Store
	transferrer  Transferrer
	clock        adapter.Clock
	mintDecimals uint8
}

// NewService creates a fulfillment service
func NewService(s store.Store, t Transferrer, clock adapter.Clock, mintDecimals uint8) *Service {
	return &Service{
		store:        s,
		transferrer:  t,
		clock:        clock,
		mintDecimals: mintDecimals,
	}
}

// ListPending returns paid transactions still owed their tokens, oldest first
func (s *Service) ListPending(ctx context.Context, limit int, offset uint64) ([]*schema.Transaction, int64, error) {
	return s.store.ListTransactionsByStatus(ctx, domain.PaymentStatusProcessing, limit, offset)
}

// Fulfill records a token delivery that was performed out of band. The
// signature is taken at the admin's word; the transaction must still be
// awaiting delivery.
func (s *Service) Fulfill(ctx context.Context, id uint64, signature string, confirmations int, notes string) (*schema.Transaction, error) {
	if signature == "" {
		return nil, fmt.Errorf("transaction signature is required")
	}

	tx, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.Status == domain.PaymentStatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	// Manual fulfillment skips the in-flight marker, so move the row into
	// the transfer state first when it is still untouched.
	if tx.BlockchainStatus == domain.BlockchainStatusPending {
		if _, err := s.store.MarkTransferInFlight(ctx, id); err != nil {
			return nil, err
		}
	}

	ok, err := s.store.CompleteFulfillment(ctx, id, store.CompleteFulfillmentParams{
		Signature:     signature,
		Confirmations: confirmations,
		Notes:         notes,
		Now:           s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d is not awaiting fulfillment", domain.ErrInvalidTransition, id)
	}

	s.recordTokensSold(ctx, tx)

	logger.InfoCtx(ctx, "Manually fulfilled transaction",
		zap.Uint64("transaction_id", id),
		zap.String("signature", signature),
	)

	return s.store.GetTransactionByID(ctx, id)
}

// Transfer performs the automated delivery path: it marks the transfer in
// flight, sends the tokens from the treasury and finalizes the row. The
// on-chain call happens with no database lock held; the in-flight marker is
// what keeps a second caller out.
func (s *Service) Transfer(ctx context.Context, id uint64) (*schema.Transaction, error) {
	tx, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.Status == domain.PaymentStatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}
	if tx.Status != domain.PaymentStatusProcessing {
		return nil, fmt.Errorf("%w: transaction %d is %s, payment must have succeeded before tokens are sent",
			domain.ErrInvalidTransition, id, tx.Status)
	}

	baseUnits, err := domain.TokensToBaseUnits(tx.TokenAmount, s.mintDecimals)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.MarkTransferInFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: a transfer for transaction %d is already in progress",
			domain.ErrInvalidTransition, id)
	}

	result, err := s.transferrer.Transfer(ctx, tx.RecipientWalletAddress, baseUnits)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("token transfer failed: %w", err),
			zap.Uint64("transaction_id", id),
			zap.String("recipient", tx.RecipientWalletAddress),
		)
		if _, failErr := s.store.FailFulfillment(ctx, id, err.Error()); failErr != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to record transfer failure: %w", failErr),
				zap.Uint64("transaction_id", id))
		}
		return nil, fmt.Errorf("token transfer failed: %w", err)
	}

	ok, err = s.store.CompleteFulfillment(ctx, id, store.CompleteFulfillmentParams{
		Signature:     result.Signature,
		Confirmations: result.Confirmations,
		Now:           s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Tokens left the treasury but the row was concurrently moved out of
		// processing. The reconciliation pass will surface the mismatch.
		logger.ErrorCtx(ctx, fmt.Errorf("transfer %s confirmed but transaction %d was no longer processing", result.Signature, id))
		return nil, fmt.Errorf("%w: transaction %d changed state during transfer %s",
			domain.ErrInvalidTransition, id, result.Signature)
	}

	s.recordTokensSold(ctx, tx)

	logger.InfoCtx(ctx, "Fulfilled transaction on chain",
		zap.Uint64("transaction_id", id),
		zap.String("signature", result.Signature),
		zap.Int("confirmations", result.Confirmations),
	)

	return s.store.GetTransactionByID(ctx, id)
}

// Retry moves a failed transaction back to pending so delivery can be
// attempted again. Only failed transactions are eligible.
func (s *Service) Retry(ctx context.Context, id uint64) (*schema.Transaction, error) {
	tx, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.Status == domain.PaymentStatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	ok, err := s.store.ResetForRetry(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d is %s, only failed transactions can be retried",
			domain.ErrInvalidTransition, id, tx.Status)
	}

	logger.InfoCtx(ctx, "Reset transaction for retry", zap.Uint64("transaction_id", id))

	return s.store.GetTransactionByID(ctx, id)
}

// OverrideStatus lets an admin force a transaction along an allowed edge of
// the payment state machine. Completing a transaction is not an override;
// that requires a transfer signature and goes through Fulfill.
func (s *Service) OverrideStatus(ctx context.Context, id uint64, target domain.PaymentStatus, notes string) (*schema.Transaction, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown status %q", target)
	}

	tx, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	if !domain.CanTransition(tx.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, tx.Status, target)
	}

	var ok bool
	switch target {
	case domain.PaymentStatusCompleted:
		return nil, fmt.Errorf("%w: completing a transaction requires a transfer signature",
			domain.ErrInvalidTransition)
	case domain.PaymentStatusFailed:
		ok, err = s.store.FailFulfillment(ctx, id, notes)
	case domain.PaymentStatusPending:
		ok, err = s.store.ResetForRetry(ctx, id)
	case domain.PaymentStatusProcessing:
		ok, err = s.store.TransitionPayment(ctx, id, tx.Status, target, "")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d changed state concurrently", domain.ErrInvalidTransition, id)
	}

	logger.InfoCtx(ctx, "Overrode transaction status",
		zap.Uint64("transaction_id", id),
		zap.String("from", string(tx.Status)),
		zap.String("to", string(target)),
	)

	return s.store.GetTransactionByID(ctx, id)
}

// recordTokensSold increments the sold counter on the active configuration.
// Delivery has already happened; a missing config row is logged, not fatal.
func (s *Service) recordTokensSold(ctx context.Context, tx *schema.Transaction) {
	cfg, err := s.store.GetActiveTokenConfig(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to load token configuration for sold counter: %w", err),
			zap.Uint64("transaction_id", tx.ID))
		return
	}
	if cfg == nil {
		logger.WarnCtx(ctx, "No active token configuration, sold counter not updated",
			zap.Uint64("transaction_id", tx.ID))
		return
	}
	if err := s.store.AddTokensSold(ctx, cfg.ID, tx.TokenAmount); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to update sold counter: %w", err),
			zap.Uint64("transaction_id", tx.ID))
	}
}
