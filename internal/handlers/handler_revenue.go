package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// revenueHandler handles HTTP requests for revenue ingestion.
type revenueHandler struct {
	revenueService portssvc.RevenueSvcFacade
}

func newRevenueHandler(rs portssvc.RevenueSvcFacade) *revenueHandler {
	return &revenueHandler{revenueService: rs}
}

// registerRevenueRoutes registers routes related to revenue ingestion.
func registerRevenueRoutes(rg *gin.RouterGroup, revenueService portssvc.RevenueSvcFacade) {
	h := newRevenueHandler(revenueService)

	revenue := rg.Group("/revenue")
	{
		revenue.POST("/ingest", h.ingest)
		revenue.POST("/ingest/batch", h.ingestBatch)
		revenue.GET("/entries", h.entriesForRecord)
	}
}

// ingest godoc
// @Summary Ingest one revenue record
// @Description Processes one earnings line; idempotent on (sourcePlatform, sourceRecordID). Redelivery returns the entries the first delivery produced.
// @Tags revenue
// @Accept  json
// @Produce  json
// @Param   record body dto.IngestRevenueRequest true "Earnings record"
// @Success 201 {object} dto.IngestResult
// @Success 200 {object} dto.IngestResult "Duplicate delivery; original entries returned"
// @Failure 400 {object} map[string]string "Invalid input format or non-positive gross amount"
// @Failure 403 {object} map[string]string "Role cannot ingest revenue"
// @Failure 404 {object} map[string]string "Release not found"
// @Failure 422 {object} map[string]string "No active split configuration for the release"
// @Security BearerAuth
// @Router /revenue/ingest [post]
func (h *revenueHandler) ingest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.IngestRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Ingest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.revenueService.Ingest(c.Request.Context(), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to ingest revenue record")
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	logger.Info("Revenue record ingested",
		slog.String("record_id", result.Record.RecordID),
		slog.Bool("duplicate", result.Duplicate))
	c.JSON(status, result)
}

// ingestBatch godoc
// @Summary Ingest a statement batch
// @Description Processes a batch record by record, tolerating partial failure; each line carries its own result or error
// @Tags revenue
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchIngestRequest true "Statement batch"
// @Success 200 {array} dto.BatchIngestResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 403 {object} map[string]string "Role cannot ingest revenue"
// @Security BearerAuth
// @Router /revenue/ingest/batch [post]
func (h *revenueHandler) ingestBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.BatchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	results, err := h.revenueService.IngestBatch(c.Request.Context(), req.Records, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to ingest revenue batch")
		return
	}

	c.JSON(http.StatusOK, results)
}

// entriesForRecord godoc
// @Summary Get the ledger entries produced for an ingested record
// @Tags revenue
// @Produce  json
// @Param   sourcePlatform query string true "Source platform"
// @Param   sourceRecordID query string true "Source record ID"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Missing query parameters"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /revenue/entries [get]
func (h *revenueHandler) entriesForRecord(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	sourcePlatform := c.Query("sourcePlatform")
	sourceRecordID := c.Query("sourceRecordID")
	if sourcePlatform == "" || sourceRecordID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourcePlatform and sourceRecordID are required"})
		return
	}

	entries, err := h.revenueService.EntriesForRecord(c.Request.Context(), sourcePlatform, sourceRecordID, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve ledger entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}
