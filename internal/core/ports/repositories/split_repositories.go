package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// SplitRepositoryFacade defines persistence for split configurations.
// Configurations are versioned: superseding deactivates the old version and
// inserts the new one atomically; old versions are retained for audit.
type SplitRepositoryFacade interface {
	// SaveConfiguration inserts a new active configuration version.
	SaveConfiguration(ctx context.Context, cfg domain.SplitConfiguration) error

	// FindConfigurationByID retrieves a configuration by ID.
	FindConfigurationByID(ctx context.Context, configID string) (*domain.SplitConfiguration, error)

	// FindActiveForRelease resolves the active configuration for a release:
	// a release-scoped configuration wins over the label-scoped fallback.
	// Returns apperrors.ErrNotFound when neither exists.
	FindActiveForRelease(ctx context.Context, releaseID string, labelID *string) (*domain.SplitConfiguration, error)

	// SupersedeConfiguration deactivates the old version and inserts its
	// replacement in one transaction.
	SupersedeConfiguration(ctx context.Context, oldConfigID string, replacement domain.SplitConfiguration) error

	// HasLedgerReferences reports whether revenue has been split against the
	// configuration, which freezes it permanently.
	HasLedgerReferences(ctx context.Context, configID string) (bool, error)
}
