package domain

import "errors"

var (
	// ErrTransactionNotFound is returned when a transaction id does not exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransition is returned when a state-machine edge is not allowed
	// from the transaction's current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyCompleted is returned when fulfillment is attempted on a
	// transaction that is already completed
	ErrAlreadyCompleted = errors.New("transaction already completed")

	// ErrInvalidWalletAddress is returned for recipient addresses that are not
	// syntactically valid Solana public keys
	ErrInvalidWalletAddress = errors.New("invalid wallet address")

	// ErrAmountOutOfBounds is returned when the purchase amount is outside the
	// configured min/max purchase range
	ErrAmountOutOfBounds = errors.New("purchase amount out of bounds")

	// ErrNoActiveTokenConfig is returned when no token configuration row is active
	ErrNoActiveTokenConfig = errors.New("no active token configuration")

	// ErrInsufficientSupply is returned when the purchase exceeds the remaining
	// token supply
	ErrInsufficientSupply = errors.New("insufficient token supply")

	// ErrWebhookSignature is returned when a webhook payload fails signature
	// verification
	ErrWebhookSignature = errors.New("webhook signature verification failed")
)
