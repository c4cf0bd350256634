package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/brightblock/tokensale/internal/adapter"
	"github.com/brightblock/tokensale/internal/api/middleware"
	"github.com/brightblock/tokensale/internal/api/server"
	"github.com/brightblock/tokensale/internal/config"
	"github.com/brightblock/tokensale/internal/fulfillment"
	"github.com/brightblock/tokensale/internal/logger"
	"github.com/brightblock/tokensale/internal/payment"
	"github.com/brightblock/tokensale/internal/reconciler"
	"github.com/brightblock/tokensale/internal/solana"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting token sale API")

	// Connect to database
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewMySQLStore(db)

	clock := adapter.NewClock()

	// Treasury client for on-chain token delivery
	treasury, err := solana.NewClient(solana.Config{
		RPCURL:              cfg.Solana.RPCURL,
		TreasurySecretKey:   cfg.Solana.TreasurySecretKey,
		MintAddress:         cfg.Solana.MintAddress,
		MintDecimals:        cfg.Solana.MintDecimals,
		MinFeeLamports:      cfg.Solana.MinFeeLamports,
		ConfirmTimeout:      cfg.Solana.ConfirmTimeout,
		ConfirmPollInterval: cfg.Solana.ConfirmPoll,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create treasury client", zap.Error(err))
	}
	if err := treasury.VerifyTreasury(ctx); err != nil {
		logger.FatalCtx(ctx, "Treasury verification failed", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Treasury verified",
		zap.String("treasury", treasury.TreasuryAddress()),
		zap.String("mint", cfg.Solana.MintAddress),
	)

	// Build services
	payments := payment.NewService(dataStore, payment.NewStripeProvider(cfg.Stripe.SecretKey))
	webhooks := webhook.NewProcessor(dataStore, webhook.NewStripeVerifier(cfg.Stripe.WebhookSecret))
	fulfillments := fulfillment.NewService(dataStore, treasury, clock, cfg.Solana.MintDecimals)
	rec := reconciler.New(reconciler.Config{
		BatchSize:      cfg.Reconciler.BatchSize,
		WorkerPoolSize: cfg.Reconciler.WorkerPoolSize,
	}, dataStore, clock)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, dataStore, payments, webhooks, fulfillments, rec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
