package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TokensForUSD computes the whole number of tokens a USD amount buys at the
// given price: floor(usd / pricePerToken). Fractional tokens are never sold.
func TokensForUSD(usd, pricePerToken decimal.Decimal) (decimal.Decimal, error) {
	if pricePerToken.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("price per token must be positive, got %s", pricePerToken)
	}
	if usd.IsNegative() {
		return decimal.Zero, fmt.Errorf("usd amount must not be negative, got %s", usd)
	}

	return usd.Div(pricePerToken).Floor(), nil
}

// USDToCents converts a USD decimal amount to integer cents for the payment
// provider. Amounts with sub-cent precision are rejected rather than rounded.
func USDToCents(usd decimal.Decimal) (int64, error) {
	cents := usd.Mul(decimal.NewFromInt(100))
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("usd amount %s has sub-cent precision", usd)
	}

	return cents.IntPart(), nil
}

// TokensToBaseUnits converts a whole token amount to SPL base units using the
// mint's decimals. The amount must be a non-negative whole number that fits
// in uint64 after scaling.
func TokensToBaseUnits(tokens decimal.Decimal, mintDecimals uint8) (uint64, error) {
	if tokens.IsNegative() {
		return 0, fmt.Errorf("token amount must not be negative, got %s", tokens)
	}
	if !tokens.Equal(tokens.Truncate(0)) {
		return 0, fmt.Errorf("token amount %s is not a whole number", tokens)
	}

	scaled := tokens.Shift(int32(mintDecimals))
	if !scaled.BigInt().IsUint64() {
		return 0, fmt.Errorf("token amount %s overflows base units at %d decimals", tokens, mintDecimals)
	}

	return scaled.BigInt().Uint64(), nil
}
