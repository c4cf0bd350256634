package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredAPIEnv(t *testing.T) {
	t.Setenv("TOKENSALE_DATABASE_HOST", "localhost")
	t.Setenv("TOKENSALE_DATABASE_USER", "tokensale")
	t.Setenv("TOKENSALE_DATABASE_PASSWORD", "secret")
	t.Setenv("TOKENSALE_DATABASE_DBNAME", "tokensale")
	t.Setenv("TOKENSALE_STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("TOKENSALE_STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("TOKENSALE_SOLANA_TREASURY_SECRET_KEY", "treasury-key")
	t.Setenv("TOKENSALE_SOLANA_MINT_ADDRESS", "So11111111111111111111111111111111111111112")
}

func TestLoadAPIConfig_Defaults(t *testing.T) {
	setRequiredAPIEnv(t)

	cfg, err := LoadAPIConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RPCURL)
	assert.Equal(t, uint8(9), cfg.Solana.MintDecimals)
	assert.Equal(t, 90*time.Second, cfg.Solana.ConfirmTimeout)
	assert.Equal(t, 500, cfg.Reconciler.BatchSize)
	assert.Equal(t, 8, cfg.Reconciler.WorkerPoolSize)
}

func TestLoadAPIConfig_EnvOverrides(t *testing.T) {
	setRequiredAPIEnv(t)
	t.Setenv("TOKENSALE_SERVER_PORT", "9090")
	t.Setenv("TOKENSALE_DATABASE_PORT", "3307")
	t.Setenv("TOKENSALE_SOLANA_CONFIRM_TIMEOUT", "2m")
	t.Setenv("TOKENSALE_DEBUG", "true")

	cfg, err := LoadAPIConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 2*time.Minute, cfg.Solana.ConfirmTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadAPIConfig_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{name: "database host", unset: "TOKENSALE_DATABASE_HOST", wantErr: "database.host is required"},
		{name: "database name", unset: "TOKENSALE_DATABASE_DBNAME", wantErr: "database.dbname is required"},
		{name: "stripe secret", unset: "TOKENSALE_STRIPE_SECRET_KEY", wantErr: "stripe.secret_key is required"},
		{name: "webhook secret", unset: "TOKENSALE_STRIPE_WEBHOOK_SECRET", wantErr: "stripe.webhook_secret is required"},
		{name: "treasury key", unset: "TOKENSALE_SOLANA_TREASURY_SECRET_KEY", wantErr: "solana.treasury_secret_key is required"},
		{name: "mint address", unset: "TOKENSALE_SOLANA_MINT_ADDRESS", wantErr: "solana.mint_address is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredAPIEnv(t)
			t.Setenv(tt.unset, "")

			_, err := LoadAPIConfig("", "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadReconcileConfig(t *testing.T) {
	t.Setenv("TOKENSALE_DATABASE_HOST", "localhost")
	t.Setenv("TOKENSALE_DATABASE_DBNAME", "tokensale")
	t.Setenv("TOKENSALE_RECONCILER_BATCH_SIZE", "100")

	cfg, err := LoadReconcileConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Reconciler.BatchSize)
	assert.Equal(t, 8, cfg.Reconciler.WorkerPoolSize)
	assert.Equal(t, 3306, cfg.Database.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.internal",
		Port:     3306,
		User:     "tokensale",
		Password: "secret",
		DBName:   "tokensale",
	}
	assert.Equal(t,
		"tokensale:secret@tcp(db.internal:3306)/tokensale?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DSN())
}
