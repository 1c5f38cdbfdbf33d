package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/core/ports"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// releaseService drives the release lifecycle state machine and the
// change-request workflow for locked releases.
type releaseService struct {
	releaseRepo       portsrepo.ReleaseRepositoryFacade
	changeRequestRepo portsrepo.ChangeRequestRepositoryFacade
	splitRepo         portsrepo.SplitRepositoryFacade
	auditRepo         portsrepo.AuditRepositoryFacade
	notifier          ports.Notifier
}

// NewReleaseService creates a new release service.
func NewReleaseService(
	releaseRepo portsrepo.ReleaseRepositoryFacade,
	changeRequestRepo portsrepo.ChangeRequestRepositoryFacade,
	splitRepo portsrepo.SplitRepositoryFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
	notifier ports.Notifier,
) portssvc.ReleaseSvcFacade {
	return &releaseService{
		releaseRepo:       releaseRepo,
		changeRequestRepo: changeRequestRepo,
		splitRepo:         splitRepo,
		auditRepo:         auditRepo,
		notifier:          notifier,
	}
}

var _ portssvc.ReleaseSvcFacade = (*releaseService)(nil)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *releaseService) CreateRelease(ctx context.Context, req dto.CreateReleaseRequest, principal domain.Principal) (*domain.Release, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var artistID string
	var labelID *string
	switch principal.Role {
	case domain.RoleArtist:
		artistID = principal.UserID
		labelID = req.LabelID
	case domain.RoleLabelAdmin:
		if req.ArtistID == "" {
			return nil, fmt.Errorf("%w: artistID is required when a label creates a release", apperrors.ErrValidation)
		}
		artistID = req.ArtistID
		id := principal.UserID
		labelID = &id
	default:
		return nil, fmt.Errorf("%w: role %s cannot create releases", apperrors.ErrForbidden, principal.Role)
	}

	now := time.Now()
	release := domain.Release{
		ReleaseID:   uuid.NewString(),
		ArtistID:    artistID,
		LabelID:     labelID,
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseType: req.ReleaseType,
		ArtworkURL:  req.ArtworkURL,
		ReleaseDate: req.ReleaseDate,
		Status:      domain.StatusDraft,
		Version:     1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	if err := s.releaseRepo.SaveRelease(ctx, release); err != nil {
		logger.Error("failed to save release", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save release: %w", err)
	}

	logger.Info("release created", slog.String("release_id", release.ReleaseID), slog.String("artist_id", artistID))
	return &release, nil
}

func (s *releaseService) GetRelease(ctx context.Context, releaseID string, principal domain.Principal) (*domain.Release, error) {
	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}
	if !release.IsOwner(principal) && !principal.Role.Can(domain.CapDistributionWriteAny) {
		return nil, fmt.Errorf("%w: release %s is not visible to user %s", apperrors.ErrForbidden, releaseID, principal.UserID)
	}
	return release, nil
}

// AuditTrail returns the release's audit log, oldest first. Visibility
// follows GetRelease.
func (s *releaseService) AuditTrail(ctx context.Context, releaseID string, principal domain.Principal) ([]domain.AuditLogEntry, error) {
	if _, err := s.GetRelease(ctx, releaseID, principal); err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.ListAuditByEntity(ctx, "release", releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail for release %s: %w", releaseID, err)
	}
	return entries, nil
}

func (s *releaseService) ListReleases(ctx context.Context, principal domain.Principal, params dto.ListReleasesParams) (*dto.ListReleasesResponse, error) {
	var ownerID *string
	if !principal.Role.Can(domain.CapDistributionWriteAny) {
		id := principal.UserID
		ownerID = &id
	}

	releases, nextToken, err := s.releaseRepo.ListReleases(ctx, ownerID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}

	return &dto.ListReleasesResponse{
		Releases:  dto.ToReleaseResponses(releases),
		NextToken: nextToken,
	}, nil
}

func (s *releaseService) UpdateReleaseMetadata(ctx context.Context, releaseID string, req dto.UpdateReleaseRequest, principal domain.Principal) (*domain.Release, error) {
	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}
	if !release.IsOwner(principal) {
		return nil, fmt.Errorf("%w: only the release owner may edit metadata", apperrors.ErrForbidden)
	}
	if !release.Editable() {
		return nil, fmt.Errorf("%w: release %s is %s; submit a change request instead", apperrors.ErrEditLocked, releaseID, release.Status)
	}

	if req.Title != nil {
		release.Title = *req.Title
	}
	if req.Genre != nil {
		release.Genre = *req.Genre
	}
	if req.ArtworkURL != nil {
		release.ArtworkURL = *req.ArtworkURL
	}
	if req.ReleaseDate != nil {
		release.ReleaseDate = req.ReleaseDate
	}
	release.LastUpdatedAt = time.Now()
	release.LastUpdatedBy = principal.UserID

	if err := s.releaseRepo.UpdateReleaseMetadata(ctx, *release); err != nil {
		return nil, fmt.Errorf("failed to update release %s: %w", releaseID, err)
	}
	release.Version++

	return release, nil
}

// authorizeTransition applies the role gates of the lifecycle state machine.
func (s *releaseService) authorizeTransition(release *domain.Release, target domain.ReleaseStatus, principal domain.Principal) error {
	switch {
	case target == domain.StatusSubmitted:
		if !release.IsOwner(principal) || !principal.Role.Can(domain.CapReleaseSubmit) {
			return fmt.Errorf("%w: only the release owner may submit", apperrors.ErrForbidden)
		}
	case target == domain.StatusArchived:
		if !release.IsOwner(principal) && !principal.Role.Can(domain.CapDistributionWriteAny) {
			return fmt.Errorf("%w: only the owner or a distribution role may archive", apperrors.ErrForbidden)
		}
	case release.Status == domain.StatusChangeRequested && target == domain.StatusDraft:
		// Rework path: the owner takes the release back for edits.
		if !release.IsOwner(principal) && !principal.Role.Can(domain.CapDistributionWriteAny) {
			return fmt.Errorf("%w: only the owner or a distribution role may return a release to draft", apperrors.ErrForbidden)
		}
	default:
		if !principal.Role.Can(domain.CapDistributionWriteAny) {
			return fmt.Errorf("%w: role %s may not move a release to %s", apperrors.ErrForbidden, principal.Role, target)
		}
	}
	return nil
}

func (s *releaseService) Transition(ctx context.Context, releaseID string, target domain.ReleaseStatus, principal domain.Principal) (*domain.Release, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}

	if err := s.authorizeTransition(release, target, principal); err != nil {
		return nil, err
	}
	if !release.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, release.Status, target)
	}

	// Going live requires a resolvable split configuration, otherwise
	// revenue for the release could not be attributed.
	if target == domain.StatusLive {
		if _, err := s.splitRepo.FindActiveForRelease(ctx, releaseID, release.LabelID); err != nil {
			return nil, fmt.Errorf("%w: release %s has no active split configuration", apperrors.ErrMissingConfiguration, releaseID)
		}
	}

	var priorStatus *domain.ReleaseStatus
	if target == domain.StatusChangeRequested {
		current := release.Status
		priorStatus = &current
	}

	now := time.Now()
	audit := domain.AuditLogEntry{
		AuditID:    uuid.NewString(),
		EntityType: "release",
		EntityID:   releaseID,
		Action:     "transition",
		ActorID:    principal.UserID,
		Detail:     fmt.Sprintf("%s -> %s", release.Status, target),
		CreatedAt:  now,
	}

	updated, err := s.releaseRepo.TransitionStatus(ctx, releaseID, target, priorStatus, release.Version, audit)
	if err != nil {
		logger.Error("release transition failed",
			slog.String("release_id", releaseID),
			slog.String("target", string(target)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to transition release %s to %s: %w", releaseID, target, err)
	}

	eventType := ports.EventReleaseTransitioned
	if target == domain.StatusLive {
		eventType = ports.EventReleaseLive
	}
	s.notifier.Publish(ctx, ports.Event{
		Type:       eventType,
		EntityID:   releaseID,
		OccurredAt: now,
		Payload:    map[string]any{"status": string(target)},
	})

	logger.Info("release transitioned",
		slog.String("release_id", releaseID),
		slog.String("from", string(release.Status)),
		slog.String("to", string(target)))
	return updated, nil
}

func (s *releaseService) Archive(ctx context.Context, releaseID string, principal domain.Principal) (*domain.Release, error) {
	return s.Transition(ctx, releaseID, domain.StatusArchived, principal)
}

// releaseFieldValue reads the current value of a change-requestable field.
func releaseFieldValue(r *domain.Release, field string) string {
	switch field {
	case "title":
		return r.Title
	case "genre":
		return r.Genre
	case "artwork_url":
		return r.ArtworkURL
	case "release_date":
		if r.ReleaseDate == nil {
			return ""
		}
		return r.ReleaseDate.Format(time.RFC3339)
	}
	return ""
}

func (s *releaseService) SubmitChangeRequest(ctx context.Context, releaseID string, req dto.CreateChangeRequestRequest, principal domain.Principal) (*domain.ChangeRequest, error) {
	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}
	if !release.IsOwner(principal) {
		return nil, fmt.Errorf("%w: only the release owner may request changes", apperrors.ErrForbidden)
	}
	if !release.ChangeRequestable() {
		return nil, fmt.Errorf("%w: release %s is %s; locked-field changes require in_review, completed or live", apperrors.ErrValidation, releaseID, release.Status)
	}
	if !domain.ChangeRequestableField(req.Field) {
		return nil, fmt.Errorf("%w: field %q cannot be changed via change request", apperrors.ErrValidation, req.Field)
	}

	now := time.Now()
	cr := domain.ChangeRequest{
		RequestID:      uuid.NewString(),
		ReleaseID:      releaseID,
		Field:          req.Field,
		CurrentValue:   releaseFieldValue(release, req.Field),
		RequestedValue: req.RequestedValue,
		Reason:         req.Reason,
		Status:         domain.ChangeRequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	if err := s.changeRequestRepo.SaveChangeRequest(ctx, cr); err != nil {
		return nil, fmt.Errorf("failed to save change request: %w", err)
	}
	return &cr, nil
}

func (s *releaseService) ResolveChangeRequest(ctx context.Context, requestID string, decision dto.ChangeRequestDecision, principal domain.Principal) (*domain.ChangeRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapDistributionWriteAny) {
		return nil, fmt.Errorf("%w: role %s cannot resolve change requests", apperrors.ErrForbidden, principal.Role)
	}

	cr, err := s.changeRequestRepo.FindChangeRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find change request %s: %w", requestID, err)
	}
	if cr.Status != domain.ChangeRequestPending {
		return nil, fmt.Errorf("%w: change request %s is already %s", apperrors.ErrConflict, requestID, cr.Status)
	}

	now := time.Now()
	resolver := principal.UserID
	cr.ResolvedBy = &resolver
	cr.ResolvedAt = &now
	cr.LastUpdatedAt = now
	cr.LastUpdatedBy = principal.UserID

	audit := domain.AuditLogEntry{
		AuditID:    uuid.NewString(),
		EntityType: "change_request",
		EntityID:   requestID,
		ActorID:    principal.UserID,
		CreatedAt:  now,
	}

	switch decision {
	case dto.DecisionApprove:
		cr.Status = domain.ChangeRequestApproved
		audit.Action = "approve"
		audit.Detail = fmt.Sprintf("%s: %q -> %q", cr.Field, cr.CurrentValue, cr.RequestedValue)
		if err := s.changeRequestRepo.ApplyChangeRequest(ctx, *cr, audit); err != nil {
			return nil, fmt.Errorf("failed to apply change request %s: %w", requestID, err)
		}
	case dto.DecisionReject:
		cr.Status = domain.ChangeRequestRejected
		audit.Action = "reject"
		audit.Detail = fmt.Sprintf("%s change rejected", cr.Field)
		if err := s.changeRequestRepo.RejectChangeRequest(ctx, *cr, audit); err != nil {
			return nil, fmt.Errorf("failed to reject change request %s: %w", requestID, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}

	s.notifier.Publish(ctx, ports.Event{
		Type:       ports.EventChangeRequestResolved,
		EntityID:   requestID,
		OccurredAt: now,
		Payload:    map[string]any{"releaseID": cr.ReleaseID, "decision": string(decision)},
	})

	logger.Info("change request resolved",
		slog.String("request_id", requestID),
		slog.String("decision", string(decision)))
	return cr, nil
}

func (s *releaseService) ListChangeRequests(ctx context.Context, releaseID string, principal domain.Principal) ([]domain.ChangeRequest, error) {
	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}
	if !release.IsOwner(principal) && !principal.Role.Can(domain.CapDistributionWriteAny) {
		return nil, fmt.Errorf("%w: change requests for release %s are not visible to user %s", apperrors.ErrForbidden, releaseID, principal.UserID)
	}
	return s.changeRequestRepo.ListChangeRequestsByRelease(ctx, releaseID)
}
