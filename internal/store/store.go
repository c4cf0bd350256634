package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/store/schema"
)

// CompleteFulfillmentParams carries the fields recorded when a transaction's
// token delivery is finalized.
type CompleteFulfillmentParams struct {
	Signature     string
	Confirmations int
	Notes         string
	Now           time.Time
}

// TransactionStats holds user-scoped purchase aggregates
type TransactionStats struct {
	TotalCount      int64           `json:"total_count"`
	PendingCount    int64           `json:"pending_count"`
	ProcessingCount int64           `json:"processing_count"`
	CompletedCount  int64           `json:"completed_count"`
	FailedCount     int64           `json:"failed_count"`
	TotalUSD        decimal.Decimal `json:"total_usd"`
	TotalTokens     decimal.Decimal `json:"total_tokens"`
}

// Store defines the interface for database operations.
//
// Every state-machine edge is exposed as a guarded conditional update that
// reports whether a row actually changed, so callers get at-most-once
// transitions without read-then-write races.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateTransaction inserts a new purchase attempt row
	CreateTransaction(ctx context.Context, tx *schema.Transaction) error
	// GetTransactionByID retrieves a transaction by its internal id, nil if absent
	GetTransactionByID(ctx context.Context, id uint64) (*schema.Transaction, error)
	// GetTransactionByIntentID retrieves a transaction by its payment intent id, nil if absent
	GetTransactionByIntentID(ctx context.Context, intentID string) (*schema.Transaction, error)
	// ListTransactionsByUser returns a user's transactions, newest first, with total count
	ListTransactionsByUser(ctx context.Context, userID string, limit int, offset uint64) ([]*schema.Transaction, int64, error)
	// ListTransactionsByStatus returns transactions in the given payment status, oldest first
	ListTransactionsByStatus(ctx context.Context, status domain.PaymentStatus, limit int, offset uint64) ([]*schema.Transaction, int64, error)
	// ListTransactionsAfter returns up to limit transactions with id > afterID, id-ordered
	ListTransactionsAfter(ctx context.Context, afterID uint64, limit int) ([]*schema.Transaction, error)
	// GetUserTransactionStats aggregates a user's purchase history
	GetUserTransactionStats(ctx context.Context, userID string) (*TransactionStats, error)

	// SetPaymentIntentID records the provider intent id. The id is set at most
	// once: the update is guarded on the column being NULL.
	SetPaymentIntentID(ctx context.Context, id uint64, intentID string) (bool, error)
	// TransitionPayment performs the guarded edge from -> to on the status
	// column, recording errorMessage when non-empty. Returns false when the row
	// was not in the expected state.
	TransitionPayment(ctx context.Context, id uint64, from, to domain.PaymentStatus, errorMessage string) (bool, error)
	// MarkTransferInFlight moves blockchain_status pending -> processing for a
	// transaction whose payment already succeeded
	MarkTransferInFlight(ctx context.Context, id uint64) (bool, error)
	// CompleteFulfillment finalizes token delivery: status completed,
	// blockchain_status confirmed, signature/confirmations/timestamps recorded.
	// Guarded on status = processing.
	CompleteFulfillment(ctx context.Context, id uint64, params CompleteFulfillmentParams) (bool, error)
	// FailFulfillment records a transfer failure: status and blockchain_status
	// failed with the error message. Guarded on status = processing.
	FailFulfillment(ctx context.Context, id uint64, errorMessage string) (bool, error)
	// ResetForRetry moves a failed transaction back to pending, clearing the
	// transfer fields. Guarded on status = failed.
	ResetForRetry(ctx context.Context, id uint64) (bool, error)
	// RepairBlockchainStatus is the reconciliation pass's guarded blockchain
	// status correction from -> to
	RepairBlockchainStatus(ctx context.Context, id uint64, from, to domain.BlockchainStatus) (bool, error)
	// RepairFulfillmentStatus rewrites fulfillment_status where it disagrees
	// with the expected derived value
	RepairFulfillmentStatus(ctx context.Context, id uint64, expected domain.FulfillmentStatus) (bool, error)

	// CreateWebhookLog appends an inbound provider event row
	CreateWebhookLog(ctx context.Context, log *schema.WebhookLog) error
	// GetWebhookLogByEventID retrieves a logged event by provider event id, nil if absent
	GetWebhookLogByEventID(ctx context.Context, eventID string) (*schema.WebhookLog, error)
	// FinalizeWebhookLog marks a logged event processed or failed
	FinalizeWebhookLog(ctx context.Context, id uint64, status schema.WebhookProcessingStatus, errorMessage string) error

	// GetActiveTokenConfig returns the single active configuration row, nil if none
	GetActiveTokenConfig(ctx context.Context) (*schema.TokenConfig, error)
	// SaveTokenConfig creates or updates a configuration row; activating a row
	// deactivates any other active row in the same database transaction
	SaveTokenConfig(ctx context.Context, cfg *schema.TokenConfig) error
	// AddTokensSold increments the sold counter on a configuration row
	AddTokensSold(ctx context.Context, configID uint64, amount decimal.Decimal) error
}
