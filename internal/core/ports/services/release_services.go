package services

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// ReleaseReaderSvc defines read operations over releases.
type ReleaseReaderSvc interface {
	// GetRelease retrieves a release visible to the principal.
	GetRelease(ctx context.Context, releaseID string, principal domain.Principal) (*domain.Release, error)

	// ListReleases lists releases scoped to the principal's visibility.
	ListReleases(ctx context.Context, principal domain.Principal, params dto.ListReleasesParams) (*dto.ListReleasesResponse, error)

	// AuditTrail returns the release's audit log, oldest first.
	AuditTrail(ctx context.Context, releaseID string, principal domain.Principal) ([]domain.AuditLogEntry, error)
}

// ReleaseLifecycleSvc defines the role-gated state machine operations.
type ReleaseLifecycleSvc interface {
	// CreateRelease creates a new release in draft for the owning artist or
	// label.
	CreateRelease(ctx context.Context, req dto.CreateReleaseRequest, principal domain.Principal) (*domain.Release, error)

	// UpdateReleaseMetadata edits metadata; only in draft, only by the owner.
	UpdateReleaseMetadata(ctx context.Context, releaseID string, req dto.UpdateReleaseRequest, principal domain.Principal) (*domain.Release, error)

	// Transition moves a release to the target status if the transition is
	// legal and the principal's role is gated in. Atomic with its audit
	// entry; produces no side effects on failure.
	Transition(ctx context.Context, releaseID string, target domain.ReleaseStatus, principal domain.Principal) (*domain.Release, error)

	// Archive soft-retires a release; releases are never deleted.
	Archive(ctx context.Context, releaseID string, principal domain.Principal) (*domain.Release, error)
}

// ChangeRequestSvc defines the change-request sub-workflow for releases
// locked against direct edits.
type ChangeRequestSvc interface {
	// SubmitChangeRequest files a pending change request; allowed only when
	// the release is in review, completed or live, and only by its owner.
	SubmitChangeRequest(ctx context.Context, releaseID string, req dto.CreateChangeRequestRequest, principal domain.Principal) (*domain.ChangeRequest, error)

	// ResolveChangeRequest approves or rejects a pending request. Approval
	// applies the field change without altering lifecycle status; rejection
	// closes the request with no mutation.
	ResolveChangeRequest(ctx context.Context, requestID string, decision dto.ChangeRequestDecision, principal domain.Principal) (*domain.ChangeRequest, error)

	// ListChangeRequests lists a release's change requests.
	ListChangeRequests(ctx context.Context, releaseID string, principal domain.Principal) ([]domain.ChangeRequest, error)
}

// ReleaseSvcFacade combines all release service interfaces.
type ReleaseSvcFacade interface {
	ReleaseReaderSvc
	ReleaseLifecycleSvc
	ChangeRequestSvc
}
