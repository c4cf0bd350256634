package reconciler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/brightblock/tokensale/internal/adapter"
	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
)

const (
	defaultBatchSize      = 500
	defaultWorkerPoolSize = 8
)

// Config holds reconciler configuration
type Config struct {
	BatchSize      int // Rows scanned per batch
	WorkerPoolSize int // Concurrent repair workers
}

// Report summarizes one reconciliation pass
type Report struct {
	Scanned  int64 `json:"scanned"`
	Repaired int64 `json:"repaired"`
	Failed   int64 `json:"failed"`
}

// Reconciler walks the transactions table and repairs rows whose blockchain
// or fulfillment status drifted out of agreement with the authoritative
// payment status. Payment status itself is never rewritten; the derived
// columns are moved to match it. Every repair is a guarded update, so a
// concurrent pass or live transition cannot be clobbered and a second run
// over a consistent table changes nothing.
type Reconciler struct {
	config  Config
	store   store.Store
	clock   adapter.Clock
	running atomic.Bool
}

// New creates a reconciler
func New(config Config, st store.Store, clock adapter.Clock) *Reconciler {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = defaultWorkerPoolSize
	}
	return &Reconciler{
		config: config,
		store:  st,
		clock:  clock,
	}
}

// Run executes a single full-table pass. Only one pass runs at a time per
// process; a second concurrent call is rejected.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("reconciliation already running")
	}
	defer r.running.Store(false)

	startTime := r.clock.Now()
	logger.InfoCtx(ctx, "Starting reconciliation pass",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("worker_pool_size", r.config.WorkerPoolSize),
	)

	var scanned, repaired, failed atomic.Int64

	pool := pond.NewPool(
		r.config.WorkerPoolSize,
		pond.WithQueueSize(r.config.BatchSize),
		pond.WithContext(ctx),
	)

	var afterID uint64
	for {
		if err := ctx.Err(); err != nil {
			pool.StopAndWait()
			return nil, err
		}

		batch, err := r.store.ListTransactionsAfter(ctx, afterID, r.config.BatchSize)
		if err != nil {
			pool.StopAndWait()
			return nil, fmt.Errorf("failed to scan transactions after id %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].ID

		for _, tx := range batch {
			scanned.Add(1)
			pool.Submit(func() {
				changed, err := r.repairRow(ctx, tx)
				if err != nil {
					failed.Add(1)
					logger.ErrorCtx(ctx, fmt.Errorf("failed to repair transaction %d: %w", tx.ID, err))
					return
				}
				if changed {
					repaired.Add(1)
				}
			})
		}
	}

	pool.StopAndWait()

	report := &Report{
		Scanned:  scanned.Load(),
		Repaired: repaired.Load(),
		Failed:   failed.Load(),
	}

	logger.InfoCtx(ctx, "Reconciliation pass completed",
		zap.Duration("duration", r.clock.Since(startTime)),
		zap.Int64("scanned", report.Scanned),
		zap.Int64("repaired", report.Repaired),
		zap.Int64("failed", report.Failed),
	)

	return report, nil
}

// repairRow brings one row's derived columns into agreement with its payment
// status. Reports whether anything changed.
func (r *Reconciler) repairRow(ctx context.Context, tx *schema.Transaction) (bool, error) {
	changed := false

	blockchainStatus := tx.BlockchainStatus
	if !domain.BlockchainStatusConsistentWith(tx.Status, blockchainStatus) {
		target := expectedBlockchainStatus(tx)

		if tx.Status == domain.PaymentStatusCompleted && tx.SolanaTransactionSignature == nil {
			// Completed without a recorded transfer cannot be repaired from
			// here; it needs a human looking at the treasury history.
			logger.WarnCtx(ctx, "Completed transaction has no transfer signature, skipping",
				zap.Uint64("transaction_id", tx.ID),
				zap.String("blockchain_status", string(blockchainStatus)),
			)
		} else {
			ok, err := r.store.RepairBlockchainStatus(ctx, tx.ID, blockchainStatus, target)
			if err != nil {
				return false, err
			}
			if ok {
				logger.InfoCtx(ctx, "Repaired blockchain status",
					zap.Uint64("transaction_id", tx.ID),
					zap.String("payment_status", string(tx.Status)),
					zap.String("from", string(blockchainStatus)),
					zap.String("to", string(target)),
				)
				blockchainStatus = target
				changed = true
			}
			// A missed guard means the row moved on its own since the scan;
			// the next pass sees the fresh state.
		}
	}

	expected := domain.DeriveFulfillmentStatus(blockchainStatus)
	if tx.FulfillmentStatus != expected || changed {
		ok, err := r.store.RepairFulfillmentStatus(ctx, tx.ID, expected)
		if err != nil {
			return false, err
		}
		if ok {
			logger.InfoCtx(ctx, "Repaired fulfillment status",
				zap.Uint64("transaction_id", tx.ID),
				zap.String("from", string(tx.FulfillmentStatus)),
				zap.String("to", string(expected)),
			)
			changed = true
		}
	}

	return changed, nil
}

// expectedBlockchainStatus is the blockchain status a row's payment status
// implies when the two disagree
func expectedBlockchainStatus(tx *schema.Transaction) domain.BlockchainStatus {
	switch tx.Status {
	case domain.PaymentStatusCompleted:
		return domain.BlockchainStatusConfirmed
	case domain.PaymentStatusFailed:
		return domain.BlockchainStatusFailed
	case domain.PaymentStatusProcessing:
		return domain.BlockchainStatusProcessing
	default:
		return domain.BlockchainStatusPending
	}
}
