package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightblock/tokensale/internal/store/schema"
)

// TransactionResponse is the API representation of a purchase. The internal
// numeric id is exposed for admin operations; buyers address rows by UUID.
type TransactionResponse struct {
	ID                      uint64          `json:"id"`
	UUID                    string          `json:"uuid"`
	UserID                  string          `json:"user_id"`
	AmountUSD               decimal.Decimal `json:"amount_usd"`
	TokenAmount             decimal.Decimal `json:"token_amount"`
	TokenPriceAtPurchase    decimal.Decimal `json:"token_price_at_purchase"`
	StripePaymentIntentID   *string         `json:"stripe_payment_intent_id,omitempty"`
	RecipientWalletAddress  string          `json:"recipient_wallet_address"`
	SolanaSignature         *string         `json:"solana_transaction_signature,omitempty"`
	Status                  string          `json:"status"`
	BlockchainStatus        string          `json:"blockchain_status"`
	FulfillmentStatus       string          `json:"fulfillment_status"`
	BlockchainConfirmations int             `json:"blockchain_confirmations"`
	FulfillmentNotes        string          `json:"fulfillment_notes,omitempty"`
	ErrorMessage            string          `json:"error_message,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	CompletedAt             *time.Time      `json:"completed_at,omitempty"`
	TokensSentAt            *time.Time      `json:"tokens_sent_at,omitempty"`
}

// NewTransactionResponse maps a stored transaction to its API representation
func NewTransactionResponse(tx *schema.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                      tx.ID,
		UUID:                    tx.UUID,
		UserID:                  tx.UserID,
		AmountUSD:               tx.AmountUSD,
		TokenAmount:             tx.TokenAmount,
		TokenPriceAtPurchase:    tx.TokenPriceAtPurchase,
		StripePaymentIntentID:   tx.StripePaymentIntentID,
		RecipientWalletAddress:  tx.RecipientWalletAddress,
		SolanaSignature:         tx.SolanaTransactionSignature,
		Status:                  string(tx.Status),
		BlockchainStatus:        string(tx.BlockchainStatus),
		FulfillmentStatus:       string(tx.FulfillmentStatus),
		BlockchainConfirmations: tx.BlockchainConfirmations,
		FulfillmentNotes:        tx.FulfillmentNotes,
		ErrorMessage:            tx.ErrorMessage,
		CreatedAt:               tx.CreatedAt,
		UpdatedAt:               tx.UpdatedAt,
		CompletedAt:             tx.CompletedAt,
		TokensSentAt:            tx.TokensSentAt,
	}
}

// NewTransactionResponses maps a list of stored transactions
func NewTransactionResponses(txs []*schema.Transaction) []*TransactionResponse {
	responses := make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, NewTransactionResponse(tx))
	}
	return responses
}

// CreatePaymentIntentResponse returns the created transaction together with
// the client secret the frontend needs to collect the card payment
type CreatePaymentIntentResponse struct {
	Transaction  *TransactionResponse `json:"transaction"`
	ClientSecret string               `json:"client_secret"`
}

// ListTransactionsResponse is a paginated transaction list
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       uint64                 `json:"offset"`
}

// TokenConfigResponse is the API representation of the sale configuration
type TokenConfigResponse struct {
	ID              uint64          `json:"id"`
	PricePerToken   decimal.Decimal `json:"price_per_token"`
	MinPurchaseUSD  decimal.Decimal `json:"min_purchase_usd"`
	MaxPurchaseUSD  decimal.Decimal `json:"max_purchase_usd"`
	TotalSupply     decimal.Decimal `json:"total_supply"`
	TokensSold      decimal.Decimal `json:"tokens_sold"`
	TokensRemaining decimal.Decimal `json:"tokens_remaining"`
	IsActive        bool            `json:"is_active"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewTokenConfigResponse maps a stored configuration to its API representation
func NewTokenConfigResponse(cfg *schema.TokenConfig) *TokenConfigResponse {
	return &TokenConfigResponse{
		ID:              cfg.ID,
		PricePerToken:   cfg.PricePerToken,
		MinPurchaseUSD:  cfg.MinPurchaseUSD,
		MaxPurchaseUSD:  cfg.MaxPurchaseUSD,
		TotalSupply:     cfg.TotalSupply,
		TokensSold:      cfg.TokensSold,
		TokensRemaining: cfg.Remaining(),
		IsActive:        cfg.IsActive,
		UpdatedAt:       cfg.UpdatedAt,
	}
}
