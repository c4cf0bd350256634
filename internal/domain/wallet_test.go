package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name      string
		addr      string
		expectErr bool
	}{
		{
			name: "system program address",
			addr: "11111111111111111111111111111111",
		},
		{
			name: "wrapped SOL mint",
			addr: "So11111111111111111111111111111111111111112",
		},
		{
			name: "token program address",
			addr: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		},
		{
			name:      "empty",
			addr:      "",
			expectErr: true,
		},
		{
			name:      "too short",
			addr:      "abc123",
			expectErr: true,
		},
		{
			name:      "too long",
			addr:      strings.Repeat("1", 45),
			expectErr: true,
		},
		{
			name:      "non base58 characters",
			addr:      "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl",
			expectErr: true,
		},
		{
			name:      "right length but not a 32 byte key",
			addr:      strings.Repeat("z", 44),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWalletAddress(tt.addr)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidWalletAddress)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
