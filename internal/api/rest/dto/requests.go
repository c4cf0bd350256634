package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/brightblock/tokensale/internal/domain"
)

// CreatePaymentIntentRequest starts a purchase
type CreatePaymentIntentRequest struct {
	// AmountUSD is the purchase amount in USD, e.g. "25.00"
	AmountUSD decimal.Decimal `json:"amount_usd"`
	// WalletAddress is the buyer's Solana wallet receiving the tokens
	WalletAddress string `json:"wallet_address"`
}

// Validate checks the request fields
func (r *CreatePaymentIntentRequest) Validate() error {
	if r.AmountUSD.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount_usd must be positive")
	}
	if r.WalletAddress == "" {
		return errors.New("wallet_address is required")
	}
	return nil
}

// FulfillRequest records an out-of-band token delivery against a transaction
type FulfillRequest struct {
	// Signature is the on-chain transfer signature
	Signature string `json:"signature"`
	// Confirmations observed for the transfer, optional
	Confirmations int `json:"confirmations"`
	// Notes is free-text context for the audit trail
	Notes string `json:"notes"`
}

// Validate checks the request fields
func (r *FulfillRequest) Validate() error {
	if r.Signature == "" {
		return errors.New("signature is required")
	}
	if r.Confirmations < 0 {
		return errors.New("confirmations must not be negative")
	}
	return nil
}

// UpdateFulfillmentStatusRequest forces a transaction along the state machine
type UpdateFulfillmentStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Validate checks the request fields
func (r *UpdateFulfillmentStatusRequest) Validate() error {
	if !domain.PaymentStatus(r.Status).Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}

// TokenConfigRequest creates or replaces the sale configuration
type TokenConfigRequest struct {
	PricePerToken  decimal.Decimal `json:"price_per_token"`
	MinPurchaseUSD decimal.Decimal `json:"min_purchase_usd"`
	MaxPurchaseUSD decimal.Decimal `json:"max_purchase_usd"`
	TotalSupply    decimal.Decimal `json:"total_supply"`
	IsActive       bool            `json:"is_active"`
}

// Validate checks the request fields
func (r *TokenConfigRequest) Validate() error {
	if r.PricePerToken.LessThanOrEqual(decimal.Zero) {
		return errors.New("price_per_token must be positive")
	}
	if r.MinPurchaseUSD.LessThanOrEqual(decimal.Zero) {
		return errors.New("min_purchase_usd must be positive")
	}
	if r.MaxPurchaseUSD.LessThan(r.MinPurchaseUSD) {
		return errors.New("max_purchase_usd must not be below min_purchase_usd")
	}
	if r.TotalSupply.LessThanOrEqual(decimal.Zero) {
		return errors.New("total_supply must be positive")
	}
	if !r.TotalSupply.Equal(r.TotalSupply.Truncate(0)) {
		return errors.New("total_supply must be a whole number")
	}
	return nil
}
