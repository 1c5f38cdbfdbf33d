package domain

import "time"

// ReleaseStatus indicates where a release sits in the distribution lifecycle.
type ReleaseStatus string

const (
	StatusDraft           ReleaseStatus = "draft"
	StatusSubmitted       ReleaseStatus = "submitted"
	StatusInReview        ReleaseStatus = "in_review"
	StatusCompleted       ReleaseStatus = "completed"
	StatusLive            ReleaseStatus = "live"
	StatusChangeRequested ReleaseStatus = "change_requested"
	StatusArchived        ReleaseStatus = "archived"
)

// forwardTransitions is the main lifecycle path. change_requested and
// archived are handled separately because their reachability depends on the
// release's prior state.
var forwardTransitions = map[ReleaseStatus]ReleaseStatus{
	StatusDraft:     StatusSubmitted,
	StatusSubmitted: StatusInReview,
	StatusInReview:  StatusCompleted,
	StatusCompleted: StatusLive,
}

// Release represents a distributable music work. Status is mutated only by
// the lifecycle controller; releases are archived, never deleted.
type Release struct {
	ReleaseID     string         `json:"releaseID"` // Primary Key (UUID)
	ArtistID      string         `json:"artistID"`
	LabelID       *string        `json:"labelID,omitempty"`
	Title         string         `json:"title"`
	Genre         string         `json:"genre"`
	ReleaseType   string         `json:"releaseType"` // single, EP, album
	ArtworkURL    string         `json:"artworkURL"`
	ReleaseDate   *time.Time     `json:"releaseDate,omitempty"`
	Status        ReleaseStatus  `json:"status"`
	PriorStatus   *ReleaseStatus `json:"priorStatus,omitempty"` // set while status == change_requested
	SplitConfigID *string        `json:"splitConfigID,omitempty"`
	Version       int64          `json:"version"` // optimistic concurrency counter
	AuditFields
}

// IsOwner reports whether the principal owns this release: the artist it
// belongs to, or the admin of its label.
func (r *Release) IsOwner(p Principal) bool {
	switch p.Role {
	case RoleArtist:
		return r.ArtistID == p.UserID
	case RoleLabelAdmin:
		return r.LabelID != nil && *r.LabelID == p.UserID
	default:
		return false
	}
}

// Editable reports whether direct metadata edits are allowed. Outside draft
// the correct path is a change request.
func (r *Release) Editable() bool {
	return r.Status == StatusDraft
}

// NextForward returns the next status on the main lifecycle path, or "" when
// the current status has no forward successor.
func (r *Release) NextForward() ReleaseStatus {
	return forwardTransitions[r.Status]
}

// CanTransitionTo reports whether target is reachable from the release's
// current status, ignoring role gating (which the lifecycle controller
// checks separately). No transition may skip an intermediate state.
func (r *Release) CanTransitionTo(target ReleaseStatus) bool {
	switch target {
	case StatusChangeRequested:
		return r.Status == StatusInReview || r.Status == StatusCompleted
	case StatusArchived:
		return r.Status != StatusArchived
	default:
		if r.Status == StatusChangeRequested {
			// Back to draft for rework, or directly back to the state the
			// release was in when changes were requested.
			return target == StatusDraft || (r.PriorStatus != nil && target == *r.PriorStatus)
		}
		return forwardTransitions[r.Status] == target
	}
}

// ChangeRequestable reports whether the release is in a state where locked
// fields may be edited via the change-request workflow.
func (r *Release) ChangeRequestable() bool {
	switch r.Status {
	case StatusInReview, StatusCompleted, StatusLive:
		return true
	}
	return false
}
