package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenConfig represents the token_configuration table - pricing and supply
// for the sale. At most one row has is_active = true at a time; activating a
// row deactivates the previous one in the same database transaction.
type TokenConfig struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PricePerToken is the USD price of one token
	PricePerToken decimal.Decimal `gorm:"column:price_per_token;not null;type:decimal(12,6)"`
	// MinPurchaseUSD is the smallest accepted purchase amount
	MinPurchaseUSD decimal.Decimal `gorm:"column:min_purchase_usd;not null;type:decimal(12,2)"`
	// MaxPurchaseUSD is the largest accepted purchase amount
	MaxPurchaseUSD decimal.Decimal `gorm:"column:max_purchase_usd;not null;type:decimal(12,2)"`
	// TotalSupply is the number of tokens allocated to the sale
	TotalSupply decimal.Decimal `gorm:"column:total_supply;not null;type:decimal(20,0)"`
	// TokensSold counts tokens delivered under this configuration
	TokensSold decimal.Decimal `gorm:"column:tokens_sold;not null;default:0;type:decimal(20,0)"`
	// IsActive marks the configuration currently used for new purchases
	IsActive bool `gorm:"column:is_active;not null;default:false;index"`
	// CreatedAt is when the configuration was created
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	// UpdatedAt is when the configuration was last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the TokenConfig model
func (TokenConfig) TableName() string {
	return "token_configuration"
}

// Remaining returns the unsold token supply
func (c *TokenConfig) Remaining() decimal.Decimal {
	return c.TotalSupply.Sub(c.TokensSold)
}
