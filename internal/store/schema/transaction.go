package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightblock/tokensale/internal/domain"
)

// Transaction represents the transactions table - one row per purchase attempt.
// Rows are never deleted; they form the financial audit trail.
type Transaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UUID is the external display identifier
	UUID string `gorm:"column:uuid;not null;uniqueIndex;type:varchar(36)"`
	// UserID identifies the buyer
	UserID string `gorm:"column:user_id;not null;index;type:varchar(36)"`
	// AmountUSD is the charged amount in USD
	AmountUSD decimal.Decimal `gorm:"column:amount_usd;not null;type:decimal(12,2)"`
	// TokenAmount is the whole number of tokens purchased
	TokenAmount decimal.Decimal `gorm:"column:token_amount;not null;type:decimal(20,0)"`
	// TokenPriceAtPurchase is the USD price per token at purchase time
	TokenPriceAtPurchase decimal.Decimal `gorm:"column:token_price_at_purchase;not null;type:decimal(12,6)"`
	// StripePaymentIntentID links the row to the provider's PaymentIntent.
	// Set at most once and never reassigned.
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id;uniqueIndex;type:varchar(255)"`
	// RecipientWalletAddress is the buyer's Solana wallet (base58, 32-44 chars)
	RecipientWalletAddress string `gorm:"column:recipient_wallet_address;not null;type:varchar(44)"`
	// SolanaTransactionSignature is the transfer signature once tokens were sent
	SolanaTransactionSignature *string `gorm:"column:solana_transaction_signature;type:varchar(88)"`
	// Status is the authoritative payment lifecycle state
	Status domain.PaymentStatus `gorm:"column:status;not null;default:pending;index;type:varchar(20)"`
	// BlockchainStatus is the token-transfer lifecycle state
	BlockchainStatus domain.BlockchainStatus `gorm:"column:blockchain_status;not null;default:pending;index;type:varchar(20)"`
	// FulfillmentStatus is the admin-facing delivery state, derived from BlockchainStatus
	FulfillmentStatus domain.FulfillmentStatus `gorm:"column:fulfillment_status;not null;default:pending;type:varchar(20)"`
	// BlockchainConfirmations is the confirmation count observed for the transfer
	BlockchainConfirmations int `gorm:"column:blockchain_confirmations;not null;default:0"`
	// FulfillmentNotes holds free-text notes from manual admin fulfillment
	FulfillmentNotes string `gorm:"column:fulfillment_notes;type:text"`
	// ErrorMessage records the last failure, surfaced verbatim to admins
	ErrorMessage string `gorm:"column:error_message;type:text"`
	// CreatedAt is when the purchase attempt was created
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the row was last mutated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
	// CompletedAt is when the purchase reached completed
	CompletedAt *time.Time `gorm:"column:completed_at"`
	// TokensSentAt is when the token transfer was recorded
	TokensSentAt *time.Time `gorm:"column:tokens_sent_at"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
