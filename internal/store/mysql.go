package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/store/schema"
)

type mysqlStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store instance
func NewMySQLStore(db *gorm.DB) Store {
	return &mysqlStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateTransaction inserts a new purchase attempt row
func (s *mysqlStore) CreateTransaction(ctx context.Context, tx *schema.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction by its internal id
func (s *mysqlStore) GetTransactionByID(ctx context.Context, id uint64) (*schema.Transaction, error) {
	var tx schema.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// GetTransactionByIntentID retrieves a transaction by its payment intent id
func (s *mysqlStore) GetTransactionByIntentID(ctx context.Context, intentID string) (*schema.Transaction, error) {
	var tx schema.Transaction
	err := s.db.WithContext(ctx).Where("stripe_payment_intent_id = ?", intentID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction by intent id: %w", err)
	}
	return &tx, nil
}

// ListTransactionsByUser returns a user's transactions, newest first, with total count
func (s *mysqlStore) ListTransactionsByUser(ctx context.Context, userID string, limit int, offset uint64) ([]*schema.Transaction, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []*schema.Transaction
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(int(offset)).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, total, nil
}

// ListTransactionsByStatus returns transactions in the given payment status, oldest first
func (s *mysqlStore) ListTransactionsByStatus(ctx context.Context, status domain.PaymentStatus, limit int, offset uint64) ([]*schema.Transaction, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("status = ?", status).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions by status: %w", err)
	}

	var txs []*schema.Transaction
	err = s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(int(offset)).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions by status: %w", err)
	}

	return txs, total, nil
}

// ListTransactionsAfter returns up to limit transactions with id > afterID, id-ordered
func (s *mysqlStore) ListTransactionsAfter(ctx context.Context, afterID uint64, limit int) ([]*schema.Transaction, error) {
	var txs []*schema.Transaction
	err := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions after id %d: %w", afterID, err)
	}
	return txs, nil
}

// GetUserTransactionStats aggregates a user's purchase history
func (s *mysqlStore) GetUserTransactionStats(ctx context.Context, userID string) (*TransactionStats, error) {
	type row struct {
		Status      string
		Count       int64
		TotalUSD    decimal.Decimal
		TotalTokens decimal.Decimal
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_usd), 0) AS total_usd, COALESCE(SUM(token_amount), 0) AS total_tokens").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	stats := &TransactionStats{
		TotalUSD:    decimal.Zero,
		TotalTokens: decimal.Zero,
	}
	for _, r := range rows {
		stats.TotalCount += r.Count
		switch domain.PaymentStatus(r.Status) {
		case domain.PaymentStatusPending:
			stats.PendingCount = r.Count
		case domain.PaymentStatusProcessing:
			stats.ProcessingCount = r.Count
		case domain.PaymentStatusCompleted:
			stats.CompletedCount = r.Count
			// Only settled purchases count toward the totals
			stats.TotalUSD = stats.TotalUSD.Add(r.TotalUSD)
			stats.TotalTokens = stats.TotalTokens.Add(r.TotalTokens)
		case domain.PaymentStatusFailed:
			stats.FailedCount = r.Count
		}
	}

	return stats, nil
}

// SetPaymentIntentID records the provider intent id, guarded on the column
// being NULL so the id is set at most once and never reassigned.
func (s *mysqlStore) SetPaymentIntentID(ctx context.Context, id uint64, intentID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND stripe_payment_intent_id IS NULL", id).
		Update("stripe_payment_intent_id", intentID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to set payment intent id: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// TransitionPayment performs the guarded status edge from -> to
func (s *mysqlStore) TransitionPayment(ctx context.Context, id uint64, from, to domain.PaymentStatus, errorMessage string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition payment status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkTransferInFlight moves blockchain_status pending -> processing for a
// transaction whose payment already succeeded
func (s *mysqlStore) MarkTransferInFlight(ctx context.Context, id uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND status = ? AND blockchain_status = ?",
			id, domain.PaymentStatusProcessing, domain.BlockchainStatusPending).
		Updates(map[string]interface{}{
			"blockchain_status":  domain.BlockchainStatusProcessing,
			"fulfillment_status": domain.DeriveFulfillmentStatus(domain.BlockchainStatusProcessing),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark transfer in flight: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CompleteFulfillment finalizes token delivery, guarded on status = processing
func (s *mysqlStore) CompleteFulfillment(ctx context.Context, id uint64, params CompleteFulfillmentParams) (bool, error) {
	updates := map[string]interface{}{
		"status":                       domain.PaymentStatusCompleted,
		"blockchain_status":            domain.BlockchainStatusConfirmed,
		"fulfillment_status":           domain.DeriveFulfillmentStatus(domain.BlockchainStatusConfirmed),
		"solana_transaction_signature": params.Signature,
		"blockchain_confirmations":     params.Confirmations,
		"error_message":                "",
		"tokens_sent_at":               params.Now,
		"completed_at":                 params.Now,
	}
	if params.Notes != "" {
		updates["fulfillment_notes"] = params.Notes
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusProcessing).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete fulfillment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FailFulfillment records a transfer failure, guarded on status = processing
func (s *mysqlStore) FailFulfillment(ctx context.Context, id uint64, errorMessage string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusProcessing).
		Updates(map[string]interface{}{
			"status":             domain.PaymentStatusFailed,
			"blockchain_status":  domain.BlockchainStatusFailed,
			"fulfillment_status": domain.DeriveFulfillmentStatus(domain.BlockchainStatusFailed),
			"error_message":      errorMessage,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to fail fulfillment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ResetForRetry moves a failed transaction back to pending, guarded on status = failed
func (s *mysqlStore) ResetForRetry(ctx context.Context, id uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusFailed).
		Updates(map[string]interface{}{
			"status":                       domain.PaymentStatusPending,
			"blockchain_status":            domain.BlockchainStatusPending,
			"fulfillment_status":           domain.DeriveFulfillmentStatus(domain.BlockchainStatusPending),
			"blockchain_confirmations":     0,
			"solana_transaction_signature": nil,
			"error_message":                "",
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to reset transaction for retry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RepairBlockchainStatus is the reconciliation pass's guarded correction
func (s *mysqlStore) RepairBlockchainStatus(ctx context.Context, id uint64, from, to domain.BlockchainStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND blockchain_status = ?", id, from).
		Update("blockchain_status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to repair blockchain status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RepairFulfillmentStatus rewrites fulfillment_status where it disagrees with
// the expected derived value
func (s *mysqlStore) RepairFulfillmentStatus(ctx context.Context, id uint64, expected domain.FulfillmentStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("id = ? AND fulfillment_status <> ?", id, expected).
		Update("fulfillment_status", expected)
	if result.Error != nil {
		return false, fmt.Errorf("failed to repair fulfillment status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateWebhookLog appends an inbound provider event row
func (s *mysqlStore) CreateWebhookLog(ctx context.Context, log *schema.WebhookLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

// GetWebhookLogByEventID retrieves a logged event by provider event id
func (s *mysqlStore) GetWebhookLogByEventID(ctx context.Context, eventID string) (*schema.WebhookLog, error) {
	var log schema.WebhookLog
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook log: %w", err)
	}
	return &log, nil
}

// FinalizeWebhookLog marks a logged event processed or failed
func (s *mysqlStore) FinalizeWebhookLog(ctx context.Context, id uint64, status schema.WebhookProcessingStatus, errorMessage string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": status,
			"error_message":     errorMessage,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to finalize webhook log: %w", err)
	}
	return nil
}

// GetActiveTokenConfig returns the single active configuration row
func (s *mysqlStore) GetActiveTokenConfig(ctx context.Context) (*schema.TokenConfig, error) {
	var cfg schema.TokenConfig
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active token config: %w", err)
	}
	return &cfg, nil
}

// SaveTokenConfig creates or updates a configuration row. Activating a row
// deactivates any other active row inside the same database transaction so
// at most one row is active at a time.
func (s *mysqlStore) SaveTokenConfig(ctx context.Context, cfg *schema.TokenConfig) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.IsActive {
			err := tx.Model(&schema.TokenConfig{}).
				Where("is_active = ? AND id <> ?", true, cfg.ID).
				Update("is_active", false).Error
			if err != nil {
				return fmt.Errorf("failed to deactivate previous token config: %w", err)
			}
		}

		if err := tx.Save(cfg).Error; err != nil {
			return fmt.Errorf("failed to save token config: %w", err)
		}
		return nil
	})
}

// AddTokensSold increments the sold counter on a configuration row
func (s *mysqlStore) AddTokensSold(ctx context.Context, configID uint64, amount decimal.Decimal) error {
	err := s.db.WithContext(ctx).
		Model(&schema.TokenConfig{}).
		Where("id = ?", configID).
		Update("tokens_sold", gorm.Expr("tokens_sold + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to add tokens sold: %w", err)
	}
	return nil
}
