package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightblock/tokensale/internal/api/middleware"
	"github.com/brightblock/tokensale/internal/api/rest/dto"
	"github.com/brightblock/tokensale/internal/domain"
	"github.com/brightblock/tokensale/internal/fulfillment"
	"github.com/brightblock/tokensale/internal/payment"
	"github.com/brightblock/tokensale/internal/reconciler"
	"github.com/brightblock/tokensale/internal/store"
	"github.com/brightblock/tokensale/internal/store/schema"
	"github.com/brightblock/tokensale/internal/webhook"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreatePaymentIntent starts a purchase and returns the provider client secret
	// POST /api/v1/payment/create-intent
	CreatePaymentIntent(c *gin.Context)

	// StripeWebhook receives payment events from the provider
	// POST /api/v1/webhooks/stripe
	StripeWebhook(c *gin.Context)

	// ListTransactions returns the authenticated buyer's purchases
	// GET /api/v1/transactions?limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)

	// GetTransaction returns a single purchase
	// GET /api/v1/transactions/:id
	GetTransaction(c *gin.Context)

	// GetTransactionStats returns the authenticated buyer's purchase aggregates
	// GET /api/v1/transactions/stats
	GetTransactionStats(c *gin.Context)

	// RetryTransaction moves a failed purchase back to pending
	// POST /api/v1/transactions/:id/retry
	RetryTransaction(c *gin.Context)

	// ListPendingFulfillments returns paid purchases still owed tokens
	// GET /api/v1/admin/fulfillments/pending?limit=<limit>&offset=<offset>
	ListPendingFulfillments(c *gin.Context)

	// FulfillTransaction records an out-of-band token delivery
	// POST /api/v1/admin/fulfillments/:id/fulfill
	FulfillTransaction(c *gin.Context)

	// UpdateFulfillmentStatus forces a purchase along the state machine
	// PUT /api/v1/admin/fulfillments/:id/status
	UpdateFulfillmentStatus(c *gin.Context)

	// TransferTokens performs the on-chain treasury transfer for a purchase
	// POST /api/v1/admin/fulfillments/:id/transfer
	TransferTokens(c *gin.Context)

	// GetTokenConfig returns the active sale configuration
	// GET /api/v1/admin/token-config
	GetTokenConfig(c *gin.Context)

	// UpdateTokenConfig creates or replaces the sale configuration
	// PUT /api/v1/admin/token-config
	UpdateTokenConfig(c *gin.Context)

	// RunReconciliation runs a status repair pass over the transactions table
	// POST /api/v1/admin/reconcile
	RunReconciliation(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store        store.Store
	payments     *payment.Service
	webhooks     *webhook.Processor
	fulfillments *fulfillment.Service
	reconciler   *reconciler.Reconciler
}

// NewHandler creates a new REST API handler
func NewHandler(
	st store.Store,
	payments *payment.Service,
	webhooks *webhook.Processor,
	fulfillments *fulfillment.Service,
	rec *reconciler.Reconciler,
) Handler {
	return &handler{
		store:        st,
		payments:     payments,
		webhooks:     webhooks,
		fulfillments: fulfillments,
		reconciler:   rec,
	}
}

// CreatePaymentIntent starts a purchase for the authenticated buyer
func (h *handler) CreatePaymentIntent(c *gin.Context) {
	userID := middleware.Subject(c)
	if userID == "" {
		respondBadRequest(c, "Missing user identity")
		return
	}

	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.payments.CreatePurchase(c.Request.Context(), userID, req.AmountUSD, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWalletAddress),
			errors.Is(err, domain.ErrAmountOutOfBounds):
			respondValidationError(c, err.Error())
		case errors.Is(err, domain.ErrNoActiveTokenConfig),
			errors.Is(err, domain.ErrInsufficientSupply):
			respondConflict(c, "Purchase not available", err.Error())
		default:
			respondInternalError(c, err, "Failed to create payment intent")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreatePaymentIntentResponse{
		Transaction:  dto.NewTransactionResponse(result.Transaction),
		ClientSecret: result.Intent.ClientSecret,
	})
}

// StripeWebhook receives and reconciles provider payment events. A non-2xx
// response makes the provider redeliver, so only verification failures and
// processing errors are surfaced.
func (h *handler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "Failed to read request body", err.Error())
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.webhooks.Process(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, domain.ErrWebhookSignature) {
			respondBadRequest(c, "Invalid webhook signature")
			return
		}
		respondInternalError(c, err, "Failed to process webhook event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// ListTransactions returns the authenticated buyer's purchase history
func (h *handler) ListTransactions(c *gin.Context) {
	userID := middleware.Subject(c)
	if userID == "" {
		respondBadRequest(c, "Missing user identity")
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	txs, total, err := h.store.ListTransactionsByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.NewTransactionResponses(txs),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// GetTransaction returns a single purchase. Buyers only see their own rows.
func (h *handler) GetTransaction(c *gin.Context) {
	tx, ok := h.loadTransaction(c)
	if !ok {
		return
	}

	if subject := middleware.Subject(c); subject != "" && tx.UserID != subject {
		// Hide other buyers' rows rather than admitting they exist
		respondNotFound(c, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// GetTransactionStats returns the authenticated buyer's purchase aggregates
func (h *handler) GetTransactionStats(c *gin.Context) {
	userID := middleware.Subject(c)
	if userID == "" {
		respondBadRequest(c, "Missing user identity")
		return
	}

	stats, err := h.store.GetUserTransactionStats(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "Failed to get transaction stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RetryTransaction resets a failed purchase so delivery can be attempted again
func (h *handler) RetryTransaction(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	tx, err := h.fulfillments.Retry(c.Request.Context(), id)
	if err != nil {
		respondFulfillmentError(c, err, "Failed to retry transaction")
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// ListPendingFulfillments returns paid purchases still owed their tokens
func (h *handler) ListPendingFulfillments(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	txs, total, err := h.fulfillments.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list pending fulfillments")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.NewTransactionResponses(txs),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// FulfillTransaction records a token delivery performed out of band
func (h *handler) FulfillTransaction(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var req dto.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	tx, err := h.fulfillments.Fulfill(c.Request.Context(), id, req.Signature, req.Confirmations, req.Notes)
	if err != nil {
		respondFulfillmentError(c, err, "Failed to fulfill transaction")
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// UpdateFulfillmentStatus forces a purchase along an allowed state machine edge
func (h *handler) UpdateFulfillmentStatus(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var req dto.UpdateFulfillmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	tx, err := h.fulfillments.OverrideStatus(c.Request.Context(), id, domain.PaymentStatus(req.Status), req.Notes)
	if err != nil {
		respondFulfillmentError(c, err, "Failed to update transaction status")
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// TransferTokens performs the on-chain treasury transfer for a paid purchase
func (h *handler) TransferTokens(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	tx, err := h.fulfillments.Transfer(c.Request.Context(), id)
	if err != nil {
		respondFulfillmentError(c, err, "Failed to transfer tokens")
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

// GetTokenConfig returns the active sale configuration
func (h *handler) GetTokenConfig(c *gin.Context) {
	cfg, err := h.store.GetActiveTokenConfig(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to get token configuration")
		return
	}
	if cfg == nil {
		respondNotFound(c, "No active token configuration")
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenConfigResponse(cfg))
}

// UpdateTokenConfig creates a new sale configuration
func (h *handler) UpdateTokenConfig(c *gin.Context) {
	var req dto.TokenConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	cfg := &schema.TokenConfig{
		PricePerToken:  req.PricePerToken,
		MinPurchaseUSD: req.MinPurchaseUSD,
		MaxPurchaseUSD: req.MaxPurchaseUSD,
		TotalSupply:    req.TotalSupply,
		IsActive:       req.IsActive,
	}
	if err := h.store.SaveTokenConfig(c.Request.Context(), cfg); err != nil {
		respondInternalError(c, err, "Failed to save token configuration")
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenConfigResponse(cfg))
}

// RunReconciliation runs a synchronous repair pass and returns its report
func (h *handler) RunReconciliation(c *gin.Context) {
	report, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Reconciliation failed")
		return
	}

	c.JSON(http.StatusOK, report)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tokensale-api",
	})
}

// loadTransaction parses the :id parameter and fetches the row, writing the
// error response itself when either step fails
func (h *handler) loadTransaction(c *gin.Context) (*schema.Transaction, bool) {
	id, ok := parseTransactionID(c)
	if !ok {
		return nil, false
	}

	tx, err := h.store.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get transaction")
		return nil, false
	}
	if tx == nil {
		respondNotFound(c, "Transaction not found")
		return nil, false
	}

	return tx, true
}

func parseTransactionID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction id")
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (int, uint64, error) {
	limit := defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		limit = min(parsed, maxPageLimit)
	}

	var offset uint64
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
		offset = parsed
	}

	return limit, offset, nil
}

// respondFulfillmentError maps fulfillment service errors onto HTTP statuses
func respondFulfillmentError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		respondNotFound(c, "Transaction not found")
	case errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrInvalidTransition):
		respondConflict(c, message, err.Error())
	default:
		respondInternalError(c, err, message)
	}
}
