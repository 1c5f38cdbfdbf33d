package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// payoutHandler handles HTTP requests for payout requests.
type payoutHandler struct {
	payoutService portssvc.PayoutSvcFacade
	stuckAge      time.Duration
}

func newPayoutHandler(ps portssvc.PayoutSvcFacade, stuckAge time.Duration) *payoutHandler {
	return &payoutHandler{payoutService: ps, stuckAge: stuckAge}
}

// registerPayoutRoutes registers payout lifecycle routes.
func registerPayoutRoutes(rg *gin.RouterGroup, payoutService portssvc.PayoutSvcFacade, stuckAge time.Duration) {
	h := newPayoutHandler(payoutService, stuckAge)

	payouts := rg.Group("/payouts")
	{
		payouts.POST("", h.requestPayout)
		payouts.GET("", h.listPayouts)
		payouts.GET("/stuck", h.listStuck)
		payouts.POST("/:id/approve", h.approve)
		payouts.POST("/:id/cancel", h.cancel)
		payouts.POST("/:id/settle", h.settle)
	}
}

// requestPayout godoc
// @Summary Request a payout
// @Description Creates a pending payout request after validating the amount against the minimum threshold and the current balance
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   payout body dto.CreatePayoutRequest true "Payout request"
// @Success 201 {object} dto.PayoutResponse
// @Failure 400 {object} map[string]string "Invalid input format or amount below threshold"
// @Failure 403 {object} map[string]string "Not the wallet owner"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /payouts [post]
func (h *payoutHandler) requestPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestPayout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payout, err := h.payoutService.RequestPayout(c.Request.Context(), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to create payout request")
		return
	}

	logger.Info("Payout requested", slog.String("request_id", payout.RequestID))
	c.JSON(http.StatusCreated, dto.ToPayoutResponse(payout))
}

// listPayouts godoc
// @Summary List payout requests
// @Description Lists the caller's payout requests; admins may pass accountID to list another account's
// @Tags payouts
// @Produce  json
// @Param   accountID query string false "Wallet account ID (defaults to the caller's)"
// @Param   limit query int false "Maximum requests per page"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListPayoutsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 403 {object} map[string]string "Not the wallet owner"
// @Security BearerAuth
// @Router /payouts [get]
func (h *payoutHandler) listPayouts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var params dto.ListPayoutsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListPayouts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	accountID := c.Query("accountID")
	if accountID == "" {
		accountID = principal.UserID
	}

	resp, err := h.payoutService.ListPayouts(c.Request.Context(), accountID, principal, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list payout requests")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listStuck godoc
// @Summary List stuck payout requests
// @Description Surfaces processing requests older than the configured cutoff for manual reconciliation
// @Tags payouts
// @Produce  json
// @Success 200 {array} dto.PayoutResponse
// @Failure 403 {object} map[string]string "Requires admin role"
// @Security BearerAuth
// @Router /payouts/stuck [get]
func (h *payoutHandler) listStuck(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	payouts, err := h.payoutService.ListStuckPayouts(c.Request.Context(), h.stuckAge, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to list stuck payout requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayoutResponses(payouts))
}

// approve godoc
// @Summary Approve a payout request
// @Description Re-validates funds at approval time, writes the wallet debit and moves the request to processing
// @Tags payouts
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 403 {object} map[string]string "Requires admin role"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is not pending"
// @Failure 422 {object} map[string]string "Insufficient funds at approval time"
// @Security BearerAuth
// @Router /payouts/{id}/approve [post]
func (h *payoutHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	payout, err := h.payoutService.Approve(c.Request.Context(), requestID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to approve payout request")
		return
	}

	logger.Info("Payout approved", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// cancel godoc
// @Summary Cancel a payout request
// @Description Withdraws a still-pending request; processing and completed requests cannot be cancelled
// @Tags payouts
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 403 {object} map[string]string "Not the requester"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is no longer pending"
// @Security BearerAuth
// @Router /payouts/{id}/cancel [post]
func (h *payoutHandler) cancel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	payout, err := h.payoutService.Cancel(c.Request.Context(), requestID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel payout request")
		return
	}

	logger.Info("Payout cancelled", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// settle godoc
// @Summary Settle a payout request against the payment rail
// @Description Submits the processing request to the external rail with bounded retries; terminal failure refunds the wallet debit
// @Tags payouts
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 403 {object} map[string]string "Requires admin role"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is not processing"
// @Failure 502 {object} map[string]string "Payment provider unavailable"
// @Security BearerAuth
// @Router /payouts/{id}/settle [post]
func (h *payoutHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	payout, err := h.payoutService.Settle(c.Request.Context(), requestID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to settle payout request")
		return
	}

	logger.Info("Payout settled",
		slog.String("request_id", requestID),
		slog.String("status", string(payout.Status)))
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}
