package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// releaseHandler handles HTTP requests for the release lifecycle and the
// change-request workflow.
type releaseHandler struct {
	releaseService portssvc.ReleaseSvcFacade
}

func newReleaseHandler(rs portssvc.ReleaseSvcFacade) *releaseHandler {
	return &releaseHandler{releaseService: rs}
}

// registerReleaseRoutes registers routes related to releases.
func registerReleaseRoutes(rg *gin.RouterGroup, releaseService portssvc.ReleaseSvcFacade) {
	h := newReleaseHandler(releaseService)

	releases := rg.Group("/releases")
	{
		releases.POST("", h.createRelease)
		releases.GET("", h.listReleases)
		releases.GET("/:id", h.getRelease)
		releases.PUT("/:id", h.updateRelease)
		releases.POST("/:id/transition", h.transition)
		releases.POST("/:id/archive", h.archive)
		releases.GET("/:id/audit", h.auditTrail)
		releases.POST("/:id/change-requests", h.submitChangeRequest)
		releases.GET("/:id/change-requests", h.listChangeRequests)
	}

	changeRequests := rg.Group("/change-requests")
	{
		changeRequests.POST("/:id/resolve", h.resolveChangeRequest)
	}
}

// createRelease godoc
// @Summary Create a release
// @Description Creates a new release in draft for the owning artist or label
// @Tags releases
// @Accept  json
// @Produce  json
// @Param   release body dto.CreateReleaseRequest true "Release details"
// @Success 201 {object} dto.ReleaseResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Role cannot create releases"
// @Security BearerAuth
// @Router /releases [post]
func (h *releaseHandler) createRelease(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRelease", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	release, err := h.releaseService.CreateRelease(c.Request.Context(), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to create release")
		return
	}

	logger.Info("Release created", slog.String("release_id", release.ReleaseID))
	c.JSON(http.StatusCreated, dto.ToReleaseResponse(release))
}

// getRelease godoc
// @Summary Get a release
// @Description Retrieves a release visible to the caller
// @Tags releases
// @Produce  json
// @Param   id path string true "Release ID"
// @Success 200 {object} dto.ReleaseResponse
// @Failure 403 {object} map[string]string "Release not visible to caller"
// @Failure 404 {object} map[string]string "Release not found"
// @Security BearerAuth
// @Router /releases/{id} [get]
func (h *releaseHandler) getRelease(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	release, err := h.releaseService.GetRelease(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve release")
		return
	}

	c.JSON(http.StatusOK, dto.ToReleaseResponse(release))
}

// listReleases godoc
// @Summary List releases
// @Description Lists releases scoped to the caller's visibility
// @Tags releases
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListReleasesResponse
// @Security BearerAuth
// @Router /releases [get]
func (h *releaseHandler) listReleases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var params dto.ListReleasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReleases", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.releaseService.ListReleases(c.Request.Context(), principal, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list releases")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateRelease godoc
// @Summary Update release metadata
// @Description Edits metadata while the release is still in draft
// @Tags releases
// @Accept  json
// @Produce  json
// @Param   id path string true "Release ID"
// @Param   release body dto.UpdateReleaseRequest true "Fields to update"
// @Success 200 {object} dto.ReleaseResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Release not found"
// @Failure 409 {object} map[string]string "Release locked for direct edits or concurrent update"
// @Security BearerAuth
// @Router /releases/{id} [put]
func (h *releaseHandler) updateRelease(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.UpdateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRelease", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	release, err := h.releaseService.UpdateReleaseMetadata(c.Request.Context(), c.Param("id"), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to update release")
		return
	}

	c.JSON(http.StatusOK, dto.ToReleaseResponse(release))
}

// transition godoc
// @Summary Transition a release
// @Description Moves a release to the target lifecycle status if the transition is legal for the caller's role
// @Tags releases
// @Accept  json
// @Produce  json
// @Param   id path string true "Release ID"
// @Param   transition body dto.TransitionRequest true "Target status"
// @Success 200 {object} dto.ReleaseResponse
// @Failure 403 {object} map[string]string "Role not gated in for this transition"
// @Failure 404 {object} map[string]string "Release not found"
// @Failure 409 {object} map[string]string "Illegal transition or concurrent update"
// @Failure 422 {object} map[string]string "No active split configuration for go-live"
// @Security BearerAuth
// @Router /releases/{id}/transition [post]
func (h *releaseHandler) transition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	release, err := h.releaseService.Transition(c.Request.Context(), c.Param("id"), req.TargetStatus, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to transition release")
		return
	}

	c.JSON(http.StatusOK, dto.ToReleaseResponse(release))
}

// archive godoc
// @Summary Archive a release
// @Description Soft-retires a release; releases are never deleted
// @Tags releases
// @Produce  json
// @Param   id path string true "Release ID"
// @Success 200 {object} dto.ReleaseResponse
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Release not found"
// @Security BearerAuth
// @Router /releases/{id}/archive [post]
func (h *releaseHandler) archive(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	release, err := h.releaseService.Archive(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to archive release")
		return
	}

	c.JSON(http.StatusOK, dto.ToReleaseResponse(release))
}

// auditTrail godoc
// @Summary Get a release's audit trail
// @Description Lists the release's audited actions, oldest first
// @Tags releases
// @Produce  json
// @Param   id path string true "Release ID"
// @Success 200 {array} dto.AuditLogResponse
// @Failure 403 {object} map[string]string "Release not visible to caller"
// @Failure 404 {object} map[string]string "Release not found"
// @Security BearerAuth
// @Router /releases/{id}/audit [get]
func (h *releaseHandler) auditTrail(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	entries, err := h.releaseService.AuditTrail(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve audit trail")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogResponses(entries))
}

// submitChangeRequest godoc
// @Summary Submit a change request
// @Description Proposes an edit to a release that is locked against direct edits
// @Tags releases
// @Accept  json
// @Produce  json
// @Param   id path string true "Release ID"
// @Param   changeRequest body dto.CreateChangeRequestRequest true "Proposed change"
// @Success 201 {object} dto.ChangeRequestResponse
// @Failure 400 {object} map[string]string "Field not change-requestable or release stage does not accept change requests"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Release not found"
// @Security BearerAuth
// @Router /releases/{id}/change-requests [post]
func (h *releaseHandler) submitChangeRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitChangeRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cr, err := h.releaseService.SubmitChangeRequest(c.Request.Context(), c.Param("id"), req, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to submit change request")
		return
	}

	logger.Info("Change request submitted",
		slog.String("request_id", cr.RequestID),
		slog.String("release_id", cr.ReleaseID))
	c.JSON(http.StatusCreated, dto.ToChangeRequestResponse(cr))
}

// listChangeRequests godoc
// @Summary List a release's change requests
// @Tags releases
// @Produce  json
// @Param   id path string true "Release ID"
// @Success 200 {array} dto.ChangeRequestResponse
// @Failure 403 {object} map[string]string "Release not visible to caller"
// @Failure 404 {object} map[string]string "Release not found"
// @Security BearerAuth
// @Router /releases/{id}/change-requests [get]
func (h *releaseHandler) listChangeRequests(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	requests, err := h.releaseService.ListChangeRequests(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondServiceError(c, err, "Failed to list change requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToChangeRequestResponses(requests))
}

// resolveChangeRequest godoc
// @Summary Resolve a change request
// @Description Approves or rejects a pending change request; approval applies the field change without altering lifecycle status
// @Tags releases
// @Accept  json
// @Produce  json
// @Param   id path string true "Change request ID"
// @Param   resolution body dto.ResolveChangeRequestRequest true "Decision"
// @Success 200 {object} dto.ChangeRequestResponse
// @Failure 403 {object} map[string]string "Role cannot resolve change requests"
// @Failure 404 {object} map[string]string "Change request not found"
// @Failure 409 {object} map[string]string "Change request already resolved"
// @Security BearerAuth
// @Router /change-requests/{id}/resolve [post]
func (h *releaseHandler) resolveChangeRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	var req dto.ResolveChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveChangeRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cr, err := h.releaseService.ResolveChangeRequest(c.Request.Context(), c.Param("id"), req.Decision, principal)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve change request")
		return
	}

	logger.Info("Change request resolved",
		slog.String("request_id", cr.RequestID),
		slog.String("decision", string(req.Decision)))
	c.JSON(http.StatusOK, dto.ToChangeRequestResponse(cr))
}
