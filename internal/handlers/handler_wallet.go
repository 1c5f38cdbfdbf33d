package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// walletHandler handles HTTP requests for wallet balances and ledger entries.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{walletService: ws}
}

// registerWalletRoutes registers wallet and ledger routes.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	wallets := rg.Group("/wallets")
	{
		wallets.GET("/:accountID/balance", h.getBalance)
		wallets.GET("/:accountID/entries", h.listEntries)
		wallets.POST("/:accountID/entries", h.applyAdjustment)
		wallets.POST("/:accountID/subscription-debit", h.debitSubscription)
		wallets.GET("/:accountID/reconcile", h.reconcile)
	}

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries/:id/reverse", h.reverseEntry)
	}
}

// getBalance godoc
// @Summary Get a wallet balance
// @Description Returns the wallet's projected balance and available amount. Owners read their own wallet; admins read anyone's.
// @Tags wallets
// @Produce  json
// @Param   accountID path string true "Wallet account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 403 {object} map[string]string "Not the wallet owner"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{accountID}/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.Balance(c.Request.Context(), c.Param("accountID"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve wallet balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(wallet))
}

// listEntries godoc
// @Summary List a wallet's ledger entries
// @Description Returns a token-paginated view of the account's entries, newest first
// @Tags wallets
// @Produce  json
// @Param   accountID path string true "Wallet account ID"
// @Param   limit query int false "Maximum entries per page"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 403 {object} map[string]string "Not the wallet owner"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{accountID}/entries [get]
func (h *walletHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.walletService.ListEntries(c.Request.Context(), c.Param("accountID"), principal, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list ledger entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// applyAdjustment godoc
// @Summary Apply an admin adjustment entry
// @Description Appends a manual adjustment to the wallet ledger under the standard funds policy
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Wallet account ID"
// @Param   entry body dto.ApplyEntryRequest true "Adjustment entry"
// @Success 201 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid input format or zero amount"
// @Failure 403 {object} map[string]string "Requires admin role"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /wallets/{accountID}/entries [post]
func (h *walletHandler) applyAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.ApplyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	accountID := c.Param("accountID")
	balance, err := h.walletService.ApplyAdjustment(c.Request.Context(), accountID, req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to apply adjustment entry")
		return
	}

	logger.Info("Adjustment entry applied",
		slog.String("account_id", accountID),
		slog.String("reference_id", req.ReferenceID))
	c.JSON(http.StatusCreated, balance)
}

// reconcile godoc
// @Summary Reconcile a wallet's balance projection
// @Description Recomputes the balance from the ledger entries and compares it against the stored projection
// @Tags wallets
// @Produce  json
// @Param   accountID path string true "Wallet account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 403 {object} map[string]string "Requires admin role"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{accountID}/reconcile [get]
func (h *walletHandler) reconcile(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	resp, err := h.walletService.ReconcileBalance(c.Request.Context(), c.Param("accountID"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile wallet balance")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// debitSubscription godoc
// @Summary Charge a subscription fee against a wallet
// @Description Draws a subscription charge from the wallet under the standard funds policy
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Wallet account ID"
// @Param   charge body dto.SubscriptionDebitRequest true "Subscription charge"
// @Success 201 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid input format or non-positive amount"
// @Failure 403 {object} map[string]string "Not the wallet owner"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /wallets/{accountID}/subscription-debit [post]
func (h *walletHandler) debitSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.SubscriptionDebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DebitSubscription", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	accountID := c.Param("accountID")
	balance, err := h.walletService.DebitSubscription(c.Request.Context(), accountID, req.Amount, req.ReferenceID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to apply subscription debit")
		return
	}

	logger.Info("Subscription debit applied",
		slog.String("account_id", accountID),
		slog.String("reference_id", req.ReferenceID))
	c.JSON(http.StatusCreated, balance)
}

// reverseEntry godoc
// @Summary Reverse a ledger entry
// @Description Appends a compensating entry negating the original; the original entry is never mutated
// @Tags wallets
// @Produce  json
// @Param   id path string true "Ledger entry ID"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 403 {object} map[string]string "Requires admin role"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed, or is itself a reversal"
// @Failure 422 {object} map[string]string "Reversal would overdraw the wallet"
// @Security BearerAuth
// @Router /ledger/entries/{id}/reverse [post]
func (h *walletHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	entryID := c.Param("id")
	reversal, err := h.walletService.Reverse(c.Request.Context(), entryID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to reverse ledger entry")
		return
	}

	logger.Info("Ledger entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(reversal))
}
