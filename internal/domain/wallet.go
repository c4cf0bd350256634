package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const (
	// MinWalletAddressLength is the shortest base58 encoding of a 32-byte key
	MinWalletAddressLength = 32
	// MaxWalletAddressLength is the longest base58 encoding of a 32-byte key
	MaxWalletAddressLength = 44
)

// ValidateWalletAddress checks that addr is a syntactically valid Solana
// public key: 32-44 characters of base58 that decode to a 32-byte key.
func ValidateWalletAddress(addr string) error {
	if len(addr) < MinWalletAddressLength || len(addr) > MaxWalletAddressLength {
		return fmt.Errorf("%w: length %d outside %d-%d", ErrInvalidWalletAddress, len(addr), MinWalletAddressLength, MaxWalletAddressLength)
	}

	if _, err := solana.PublicKeyFromBase58(addr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWalletAddress, err)
	}

	return nil
}
