package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// splitHandler handles HTTP requests for split configurations.
type splitHandler struct {
	splitService portssvc.SplitSvcFacade
}

func newSplitHandler(ss portssvc.SplitSvcFacade) *splitHandler {
	return &splitHandler{splitService: ss}
}

// registerSplitRoutes registers routes related to split configurations.
func registerSplitRoutes(rg *gin.RouterGroup, splitService portssvc.SplitSvcFacade) {
	h := newSplitHandler(splitService)

	splits := rg.Group("/splits")
	{
		splits.POST("", h.createConfiguration)
		splits.POST("/:id/supersede", h.supersedeConfiguration)
	}

	// Resolution endpoint lives under the release it resolves for.
	rg.GET("/releases/:id/split", h.getActiveForRelease)
}

// createConfiguration godoc
// @Summary Create a split configuration
// @Description Creates a new active configuration version scoped to a release or a label
// @Tags splits
// @Accept  json
// @Produce  json
// @Param   config body dto.CreateSplitConfigRequest true "Configuration details"
// @Success 201 {object} dto.SplitConfigResponse
// @Failure 400 {object} map[string]string "Percentages do not sum to 1 or fee rate out of range"
// @Failure 403 {object} map[string]string "Role cannot write split configurations"
// @Failure 404 {object} map[string]string "Scoped release not found"
// @Security BearerAuth
// @Router /splits [post]
func (h *splitHandler) createConfiguration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateSplitConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSplitConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cfg, err := h.splitService.CreateConfiguration(c.Request.Context(), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to create split configuration")
		return
	}

	logger.Info("Split configuration created", slog.String("config_id", cfg.ConfigID))
	c.JSON(http.StatusCreated, dto.ToSplitConfigResponse(cfg))
}

// supersedeConfiguration godoc
// @Summary Supersede a split configuration
// @Description Replaces an active configuration with a new version; the old version is retained for audit
// @Tags splits
// @Accept  json
// @Produce  json
// @Param   id path string true "Configuration ID being superseded"
// @Param   config body dto.CreateSplitConfigRequest true "Replacement details"
// @Success 201 {object} dto.SupersedeConfigResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Role cannot write split configurations"
// @Failure 404 {object} map[string]string "Configuration not found"
// @Failure 409 {object} map[string]string "Configuration is not active"
// @Security BearerAuth
// @Router /splits/{id}/supersede [post]
func (h *splitHandler) supersedeConfiguration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateSplitConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SupersedeSplitConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.splitService.SupersedeConfiguration(c.Request.Context(), c.Param("id"), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to supersede split configuration")
		return
	}

	logger.Info("Split configuration superseded",
		slog.String("old_config_id", c.Param("id")),
		slog.String("config_id", resp.Config.ConfigID))
	c.JSON(http.StatusCreated, resp)
}

// getActiveForRelease godoc
// @Summary Get the active split configuration for a release
// @Description Resolves the configuration revenue ingestion will use: release-scoped wins over label-scoped
// @Tags splits
// @Produce  json
// @Param   id path string true "Release ID"
// @Success 200 {object} dto.SplitConfigResponse
// @Failure 403 {object} map[string]string "Release not visible to caller"
// @Failure 404 {object} map[string]string "Release not found"
// @Failure 422 {object} map[string]string "No active split configuration"
// @Security BearerAuth
// @Router /releases/{id}/split [get]
func (h *splitHandler) getActiveForRelease(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	cfg, err := h.splitService.GetActiveForRelease(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve split configuration")
		return
	}

	c.JSON(http.StatusOK, dto.ToSplitConfigResponse(cfg))
}
