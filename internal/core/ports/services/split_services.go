package services

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// SplitSvcFacade manages versioned split configurations.
type SplitSvcFacade interface {
	// CreateConfiguration validates and stores a new configuration version.
	CreateConfiguration(ctx context.Context, req dto.CreateSplitConfigRequest, principal domain.Principal) (*domain.SplitConfiguration, error)

	// SupersedeConfiguration replaces an active configuration with a new
	// version, retaining the old one for audit. The response reports
	// whether ingested revenue already references the superseded version.
	SupersedeConfiguration(ctx context.Context, configID string, req dto.CreateSplitConfigRequest, principal domain.Principal) (*dto.SupersedeConfigResponse, error)

	// GetActiveForRelease resolves the configuration revenue ingestion will
	// use for the release.
	GetActiveForRelease(ctx context.Context, releaseID string, principal domain.Principal) (*domain.SplitConfiguration, error)
}
