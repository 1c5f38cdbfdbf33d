package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// ReleaseReader defines read operations for release data.
type ReleaseReader interface {
	// FindReleaseByID retrieves a release by its unique identifier.
	FindReleaseByID(ctx context.Context, releaseID string) (*domain.Release, error)

	// ListReleases retrieves a token-paginated list of releases, optionally
	// filtered to a single owner (artist or label).
	ListReleases(ctx context.Context, ownerID *string, limit int, nextToken *string) ([]domain.Release, *string, error)
}

// ReleaseWriter defines write operations for release data.
type ReleaseWriter interface {
	// SaveRelease inserts a new release in draft.
	SaveRelease(ctx context.Context, release domain.Release) error

	// UpdateReleaseMetadata persists draft-stage metadata edits guarded by
	// the version column; returns apperrors.ErrConflict on a stale version.
	UpdateReleaseMetadata(ctx context.Context, release domain.Release) error

	// TransitionStatus atomically moves a release to a new status and writes
	// the audit entry. The update is guarded by expectedVersion; losers of a
	// concurrent race get apperrors.ErrConflict and must re-read.
	TransitionStatus(ctx context.Context, releaseID string, target domain.ReleaseStatus, priorStatus *domain.ReleaseStatus, expectedVersion int64, audit domain.AuditLogEntry) (*domain.Release, error)
}

// ReleaseRepositoryFacade combines all release repository interfaces.
type ReleaseRepositoryFacade interface {
	ReleaseReader
	ReleaseWriter
}

// ChangeRequestRepositoryFacade defines persistence for change requests.
type ChangeRequestRepositoryFacade interface {
	// SaveChangeRequest inserts a new pending change request.
	SaveChangeRequest(ctx context.Context, req domain.ChangeRequest) error

	// FindChangeRequestByID retrieves a change request by ID.
	FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error)

	// ListChangeRequestsByRelease retrieves all change requests for a release.
	ListChangeRequestsByRelease(ctx context.Context, releaseID string) ([]domain.ChangeRequest, error)

	// ApplyChangeRequest atomically marks the request approved, applies the
	// field change to the release (lifecycle status untouched) and writes the
	// audit entry.
	ApplyChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error

	// RejectChangeRequest closes the request with no release mutation.
	RejectChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error
}
