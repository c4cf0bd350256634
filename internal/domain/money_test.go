package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensForUSD(t *testing.T) {
	tests := []struct {
		name      string
		usd       string
		price     string
		expected  string
		expectErr bool
	}{
		{
			name:     "exact division",
			usd:      "25.00",
			price:    "0.50",
			expected: "50",
		},
		{
			name:     "fractional result floors",
			usd:      "10.00",
			price:    "0.30",
			expected: "33",
		},
		{
			name:     "sub token amount floors to zero",
			usd:      "0.25",
			price:    "0.50",
			expected: "0",
		},
		{
			name:     "high precision price",
			usd:      "100.00",
			price:    "0.123456",
			expected: "810",
		},
		{
			name:     "zero usd",
			usd:      "0",
			price:    "0.50",
			expected: "0",
		},
		{
			name:      "zero price rejected",
			usd:       "25.00",
			price:     "0",
			expectErr: true,
		},
		{
			name:      "negative price rejected",
			usd:       "25.00",
			price:     "-0.50",
			expectErr: true,
		},
		{
			name:      "negative usd rejected",
			usd:       "-25.00",
			price:     "0.50",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := TokensForUSD(decimal.RequireFromString(tt.usd), decimal.RequireFromString(tt.price))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tokens.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s tokens, got %s", tt.expected, tokens)
		})
	}
}

func TestUSDToCents(t *testing.T) {
	tests := []struct {
		name      string
		usd       string
		expected  int64
		expectErr bool
	}{
		{
			name:     "whole dollars",
			usd:      "25",
			expected: 2500,
		},
		{
			name:     "dollars and cents",
			usd:      "19.99",
			expected: 1999,
		},
		{
			name:     "single cent",
			usd:      "0.01",
			expected: 1,
		},
		{
			name:      "sub cent precision rejected",
			usd:       "10.005",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, err := USDToCents(decimal.RequireFromString(tt.usd))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cents)
		})
	}
}

func TestTokensToBaseUnits(t *testing.T) {
	tests := []struct {
		name      string
		tokens    string
		decimals  uint8
		expected  uint64
		expectErr bool
	}{
		{
			name:     "nine decimal mint",
			tokens:   "50",
			decimals: 9,
			expected: 50_000_000_000,
		},
		{
			name:     "six decimal mint",
			tokens:   "1",
			decimals: 6,
			expected: 1_000_000,
		},
		{
			name:     "zero tokens",
			tokens:   "0",
			decimals: 9,
			expected: 0,
		},
		{
			name:     "zero decimal mint",
			tokens:   "123",
			decimals: 0,
			expected: 123,
		},
		{
			name:      "fractional tokens rejected",
			tokens:    "1.5",
			decimals:  9,
			expectErr: true,
		},
		{
			name:      "negative tokens rejected",
			tokens:    "-1",
			decimals:  9,
			expectErr: true,
		},
		{
			name:      "overflow rejected",
			tokens:    "99999999999999999999",
			decimals:  9,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseUnits, err := TokensToBaseUnits(decimal.RequireFromString(tt.tokens), tt.decimals)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, baseUnits)
		})
	}
}
