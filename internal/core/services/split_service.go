package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// splitService manages versioned split configurations. Configurations are
// validated at write time; ingestion trusts them without re-checking.
type splitService struct {
	splitRepo   portsrepo.SplitRepositoryFacade
	releaseRepo portsrepo.ReleaseRepositoryFacade
}

// NewSplitService creates a new split configuration service.
func NewSplitService(splitRepo portsrepo.SplitRepositoryFacade, releaseRepo portsrepo.ReleaseRepositoryFacade) portssvc.SplitSvcFacade {
	return &splitService{splitRepo: splitRepo, releaseRepo: releaseRepo}
}

var _ portssvc.SplitSvcFacade = (*splitService)(nil)

func (s *splitService) CreateConfiguration(ctx context.Context, req dto.CreateSplitConfigRequest, principal domain.Principal) (*domain.SplitConfiguration, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapSplitConfigWrite) {
		return nil, fmt.Errorf("%w: role %s cannot write split configurations", apperrors.ErrForbidden, principal.Role)
	}

	now := time.Now()
	cfg := domain.SplitConfiguration{
		ConfigID:       uuid.NewString(),
		ReleaseID:      req.ReleaseID,
		LabelID:        req.LabelID,
		PartnerFeeRate: req.PartnerFeeRate,
		ArtistPct:      req.ArtistPct,
		LabelPct:       req.LabelPct,
		CompanyPct:     req.CompanyPct,
		Version:        1,
		Active:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	// A release-scoped configuration must point at a real release.
	if req.ReleaseID != nil {
		if _, err := s.releaseRepo.FindReleaseByID(ctx, *req.ReleaseID); err != nil {
			return nil, fmt.Errorf("failed to find release %s for split configuration: %w", *req.ReleaseID, err)
		}
	}

	if err := s.splitRepo.SaveConfiguration(ctx, cfg); err != nil {
		logger.Error("failed to save split configuration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save split configuration: %w", err)
	}

	logger.Info("split configuration created", slog.String("config_id", cfg.ConfigID))
	return &cfg, nil
}

func (s *splitService) SupersedeConfiguration(ctx context.Context, configID string, req dto.CreateSplitConfigRequest, principal domain.Principal) (*dto.SupersedeConfigResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapSplitConfigWrite) {
		return nil, fmt.Errorf("%w: role %s cannot write split configurations", apperrors.ErrForbidden, principal.Role)
	}

	old, err := s.splitRepo.FindConfigurationByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to find split configuration %s: %w", configID, err)
	}
	if !old.Active {
		return nil, fmt.Errorf("%w: configuration %s has already been superseded", apperrors.ErrConflict, configID)
	}

	// Revenue records pin the version they were split under; once any
	// exist the old percentages are frozen into history and the caller is
	// told so.
	frozen, err := s.splitRepo.HasLedgerReferences(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger references for configuration %s: %w", configID, err)
	}

	now := time.Now()
	replacement := domain.SplitConfiguration{
		ConfigID:       uuid.NewString(),
		ReleaseID:      old.ReleaseID,
		LabelID:        old.LabelID,
		PartnerFeeRate: req.PartnerFeeRate,
		ArtistPct:      req.ArtistPct,
		LabelPct:       req.LabelPct,
		CompanyPct:     req.CompanyPct,
		Version:        old.Version + 1,
		Active:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}
	if err := replacement.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.splitRepo.SupersedeConfiguration(ctx, configID, replacement); err != nil {
		return nil, fmt.Errorf("failed to supersede configuration %s: %w", configID, err)
	}

	logger.Info("split configuration superseded",
		slog.String("old_config_id", configID),
		slog.String("new_config_id", replacement.ConfigID),
		slog.Int64("version", replacement.Version),
		slog.Bool("prior_version_referenced", frozen))
	return &dto.SupersedeConfigResponse{
		Config:                 dto.ToSplitConfigResponse(&replacement),
		PriorVersionReferenced: frozen,
	}, nil
}

func (s *splitService) GetActiveForRelease(ctx context.Context, releaseID string, principal domain.Principal) (*domain.SplitConfiguration, error) {
	release, err := s.releaseRepo.FindReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", releaseID, err)
	}
	if !release.IsOwner(principal) &&
		!principal.Role.Can(domain.CapSplitConfigWrite) &&
		!principal.Role.Can(domain.CapDistributionWriteAny) {
		return nil, fmt.Errorf("%w: split configuration for release %s is not visible to user %s", apperrors.ErrForbidden, releaseID, principal.UserID)
	}

	cfg, err := s.splitRepo.FindActiveForRelease(ctx, releaseID, release.LabelID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: release %s has no active split configuration", apperrors.ErrMissingConfiguration, releaseID)
		}
		return nil, fmt.Errorf("failed to resolve split configuration for release %s: %w", releaseID, err)
	}
	return cfg, nil
}
