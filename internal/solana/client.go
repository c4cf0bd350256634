package solana

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/brightblock/tokensale/internal/logger"
)

const (
	// finalizedConfirmations is reported once a transfer is rooted; the RPC
	// stops returning a confirmation count past 32
	finalizedConfirmations = 32

	defaultConfirmTimeout      = 90 * time.Second
	defaultConfirmPollInterval = 2 * time.Second
	defaultMinFeeLamports      = 5_000_000 // 0.005 SOL
)

// TransferResult describes a confirmed token transfer
type TransferResult struct {
	Signature     string
	Confirmations int
}

// Config holds treasury client configuration
type Config struct {
	RPCURL string
	// TreasurySecretKey is the treasury keypair in base58
	TreasurySecretKey string
	// MintAddress is the SPL token mint being sold
	MintAddress string
	// MintDecimals is the mint's base-unit scale
	MintDecimals uint8
	// MinFeeLamports is the SOL balance required before submitting a transfer
	MinFeeLamports uint64
	// ConfirmTimeout bounds the wait for network confirmation
	ConfirmTimeout time.Duration
	// ConfirmPollInterval is the initial signature-status polling interval
	ConfirmPollInterval time.Duration
}

// Client submits SPL token transfers from the treasury account. It is created
// once at process start and injected into the fulfillment service.
type Client struct {
	rpc         *rpc.Client
	treasury    solana.PrivateKey
	treasuryATA solana.PublicKey
	mint        solana.PublicKey
	cfg         Config
}

// NewClient parses the treasury keypair and mint, derives the treasury's
// associated token account and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("solana rpc url is required")
	}

	treasury, err := solana.PrivateKeyFromBase58(cfg.TreasurySecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse treasury secret key: %w", err)
	}

	mint, err := solana.PublicKeyFromBase58(cfg.MintAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mint address: %w", err)
	}

	treasuryATA, _, err := solana.FindAssociatedTokenAddress(treasury.PublicKey(), mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive treasury token account: %w", err)
	}

	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	if cfg.ConfirmPollInterval == 0 {
		cfg.ConfirmPollInterval = defaultConfirmPollInterval
	}
	if cfg.MinFeeLamports == 0 {
		cfg.MinFeeLamports = defaultMinFeeLamports
	}

	return &Client{
		rpc:         rpc.New(cfg.RPCURL),
		treasury:    treasury,
		treasuryATA: treasuryATA,
		mint:        mint,
		cfg:         cfg,
	}, nil
}

// TreasuryAddress returns the treasury wallet's public key in base58
func (c *Client) TreasuryAddress() string {
	return c.treasury.PublicKey().String()
}

// VerifyTreasury checks that the treasury token account exists, holds the
// configured mint and is owned by the treasury wallet.
func (c *Client) VerifyTreasury(ctx context.Context) error {
	info, err := c.rpc.GetAccountInfo(ctx, c.treasuryATA)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return fmt.Errorf("treasury token account %s does not exist", c.treasuryATA)
		}
		return fmt.Errorf("failed to fetch treasury token account: %w", err)
	}
	if info.Value == nil {
		return fmt.Errorf("treasury token account %s does not exist", c.treasuryATA)
	}

	var account token.Account
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&account); err != nil {
		return fmt.Errorf("failed to decode treasury token account: %w", err)
	}

	if !account.Owner.Equals(c.treasury.PublicKey()) {
		return fmt.Errorf("treasury token account owner mismatch: got %s, want %s",
			account.Owner, c.treasury.PublicKey())
	}
	if !account.Mint.Equals(c.mint) {
		return fmt.Errorf("treasury token account mint mismatch: got %s, want %s",
			account.Mint, c.mint)
	}

	return nil
}

// preflight verifies ownership and that the treasury holds enough tokens and
// enough SOL for fees before a transfer is submitted.
func (c *Client) preflight(ctx context.Context, baseUnits uint64) error {
	if err := c.VerifyTreasury(ctx); err != nil {
		return err
	}

	balance, err := c.rpc.GetTokenAccountBalance(ctx, c.treasuryATA, rpc.CommitmentConfirmed)
	if err != nil {
		return fmt.Errorf("failed to fetch treasury token balance: %w", err)
	}
	available, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse treasury token balance: %w", err)
	}
	if available < baseUnits {
		return fmt.Errorf("insufficient treasury token balance: have %d, need %d base units", available, baseUnits)
	}

	sol, err := c.rpc.GetBalance(ctx, c.treasury.PublicKey(), rpc.CommitmentConfirmed)
	if err != nil {
		return fmt.Errorf("failed to fetch treasury SOL balance: %w", err)
	}
	if sol.Value < c.cfg.MinFeeLamports {
		return fmt.Errorf("insufficient SOL for fees: have %d, need %d lamports", sol.Value, c.cfg.MinFeeLamports)
	}

	return nil
}

// Transfer moves baseUnits of the mint from the treasury to the recipient
// wallet's associated token account, creating that account in the same
// transaction when it does not exist, and waits for network confirmation.
func (c *Client) Transfer(ctx context.Context, recipientWallet string, baseUnits uint64) (*TransferResult, error) {
	recipient, err := solana.PublicKeyFromBase58(recipientWallet)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient wallet %q: %w", recipientWallet, err)
	}

	if err := c.preflight(ctx, baseUnits); err != nil {
		return nil, err
	}

	recipientATA, _, err := solana.FindAssociatedTokenAddress(recipient, c.mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive recipient token account: %w", err)
	}

	var instructions []solana.Instruction
	needsAccount, err := c.accountMissing(ctx, recipientATA)
	if err != nil {
		return nil, err
	}
	if needsAccount {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(
				c.treasury.PublicKey(),
				recipient,
				c.mint,
			).Build(),
		)
	}
	instructions = append(instructions,
		token.NewTransferInstruction(
			baseUnits,
			c.treasuryATA,
			recipientATA,
			c.treasury.PublicKey(),
			nil,
		).Build(),
	)

	blockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash.Value.Blockhash,
		solana.TransactionPayer(c.treasury.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.treasury.PublicKey()) {
			return &c.treasury
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Submitted token transfer",
		zap.String("signature", sig.String()),
		zap.String("recipient", recipientWallet),
		zap.Uint64("base_units", baseUnits),
		zap.Bool("created_token_account", needsAccount),
	)

	confirmations, err := c.awaitConfirmation(ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("transfer %s not confirmed: %w", sig, err)
	}

	return &TransferResult{Signature: sig.String(), Confirmations: confirmations}, nil
}

// accountMissing reports whether the given account does not exist on chain
func (c *Client) accountMissing(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check token account %s: %w", account, err)
	}
	return info.Value == nil, nil
}

// awaitConfirmation polls signature status until the confirmed commitment
// level is reached or the configured timeout elapses.
func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature) (int, error) {
	var confirmations int

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.ConfirmPollInterval
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = c.cfg.ConfirmTimeout

	operation := func() error {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			return fmt.Errorf("failed to fetch signature status: %w", err)
		}
		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return errors.New("signature not yet visible")
		}

		status := statuses.Value[0]
		if status.Err != nil {
			// The transaction landed on chain but its execution failed;
			// retrying the status poll cannot change that.
			return backoff.Permanent(fmt.Errorf("transaction failed on chain: %v", status.Err))
		}

		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed:
			confirmations = 1
			if status.Confirmations != nil {
				confirmations = int(*status.Confirmations)
			}
			return nil
		case rpc.ConfirmationStatusFinalized:
			confirmations = finalizedConfirmations
			return nil
		default:
			return errors.New("awaiting confirmation")
		}
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return 0, err
	}

	return confirmations, nil
}
