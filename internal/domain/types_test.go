package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Valid(t *testing.T) {
	tests := []struct {
		name     string
		status   PaymentStatus
		expected bool
	}{
		{
			name:     "pending",
			status:   PaymentStatusPending,
			expected: true,
		},
		{
			name:     "processing",
			status:   PaymentStatusProcessing,
			expected: true,
		},
		{
			name:     "completed",
			status:   PaymentStatusCompleted,
			expected: true,
		},
		{
			name:     "failed",
			status:   PaymentStatusFailed,
			expected: true,
		},
		{
			name:     "empty",
			status:   PaymentStatus(""),
			expected: false,
		},
		{
			name:     "unknown",
			status:   PaymentStatus("refunded"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.Valid())
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     PaymentStatus
		to       PaymentStatus
		expected bool
	}{
		{
			name:     "pending to processing on payment success",
			from:     PaymentStatusPending,
			to:       PaymentStatusProcessing,
			expected: true,
		},
		{
			name:     "pending to failed on payment failure",
			from:     PaymentStatusPending,
			to:       PaymentStatusFailed,
			expected: true,
		},
		{
			name:     "processing to completed on delivery",
			from:     PaymentStatusProcessing,
			to:       PaymentStatusCompleted,
			expected: true,
		},
		{
			name:     "processing to failed on transfer failure",
			from:     PaymentStatusProcessing,
			to:       PaymentStatusFailed,
			expected: true,
		},
		{
			name:     "failed back to pending on retry",
			from:     PaymentStatusFailed,
			to:       PaymentStatusPending,
			expected: true,
		},
		{
			name:     "pending cannot skip to completed",
			from:     PaymentStatusPending,
			to:       PaymentStatusCompleted,
			expected: false,
		},
		{
			name:     "completed is terminal",
			from:     PaymentStatusCompleted,
			to:       PaymentStatusPending,
			expected: false,
		},
		{
			name:     "completed cannot fail",
			from:     PaymentStatusCompleted,
			to:       PaymentStatusFailed,
			expected: false,
		},
		{
			name:     "failed cannot jump to completed",
			from:     PaymentStatusFailed,
			to:       PaymentStatusCompleted,
			expected: false,
		},
		{
			name:     "no self transition",
			from:     PaymentStatusPending,
			to:       PaymentStatusPending,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanTransition(tt.from, tt.to))
		})
	}
}

func TestPaymentStatus_Terminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.Terminal())
	assert.False(t, PaymentStatusProcessing.Terminal())
	assert.True(t, PaymentStatusCompleted.Terminal())
	assert.True(t, PaymentStatusFailed.Terminal())
}

func TestDeriveFulfillmentStatus(t *testing.T) {
	tests := []struct {
		name       string
		blockchain BlockchainStatus
		expected   FulfillmentStatus
	}{
		{
			name:       "pending transfer",
			blockchain: BlockchainStatusPending,
			expected:   FulfillmentStatusPending,
		},
		{
			name:       "in flight transfer",
			blockchain: BlockchainStatusProcessing,
			expected:   FulfillmentStatusProcessing,
		},
		{
			name:       "confirmed transfer",
			blockchain: BlockchainStatusConfirmed,
			expected:   FulfillmentStatusCompleted,
		},
		{
			name:       "failed transfer",
			blockchain: BlockchainStatusFailed,
			expected:   FulfillmentStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveFulfillmentStatus(tt.blockchain))
		})
	}
}

func TestBlockchainStatusConsistentWith(t *testing.T) {
	tests := []struct {
		name       string
		payment    PaymentStatus
		blockchain BlockchainStatus
		expected   bool
	}{
		{
			name:       "completed requires confirmed",
			payment:    PaymentStatusCompleted,
			blockchain: BlockchainStatusConfirmed,
			expected:   true,
		},
		{
			name:       "completed with pending transfer is drift",
			payment:    PaymentStatusCompleted,
			blockchain: BlockchainStatusPending,
			expected:   false,
		},
		{
			name:       "failed with failed transfer",
			payment:    PaymentStatusFailed,
			blockchain: BlockchainStatusFailed,
			expected:   true,
		},
		{
			name:       "failed before any transfer attempt",
			payment:    PaymentStatusFailed,
			blockchain: BlockchainStatusPending,
			expected:   true,
		},
		{
			name:       "failed with confirmed transfer is drift",
			payment:    PaymentStatusFailed,
			blockchain: BlockchainStatusConfirmed,
			expected:   false,
		},
		{
			name:       "processing awaiting transfer",
			payment:    PaymentStatusProcessing,
			blockchain: BlockchainStatusPending,
			expected:   true,
		},
		{
			name:       "processing with transfer in flight",
			payment:    PaymentStatusProcessing,
			blockchain: BlockchainStatusProcessing,
			expected:   true,
		},
		{
			name:       "processing with confirmed transfer is drift",
			payment:    PaymentStatusProcessing,
			blockchain: BlockchainStatusConfirmed,
			expected:   false,
		},
		{
			name:       "pending purchase with pending transfer",
			payment:    PaymentStatusPending,
			blockchain: BlockchainStatusPending,
			expected:   true,
		},
		{
			name:       "pending purchase with in flight transfer is drift",
			payment:    PaymentStatusPending,
			blockchain: BlockchainStatusProcessing,
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BlockchainStatusConsistentWith(tt.payment, tt.blockchain))
		})
	}
}
