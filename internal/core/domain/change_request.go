package domain

import "time"

// ChangeRequestStatus tracks a change request through resolution.
type ChangeRequestStatus string

const (
	ChangeRequestPending  ChangeRequestStatus = "pending"
	ChangeRequestApproved ChangeRequestStatus = "approved"
	ChangeRequestRejected ChangeRequestStatus = "rejected"
)

// changeRequestFields is the whitelist of release fields editable through
// the change-request workflow once a release has left draft.
var changeRequestFields = map[string]bool{
	"title":        true,
	"genre":        true,
	"artwork_url":  true,
	"release_date": true,
}

// ChangeRequestableField reports whether the named release field may be
// edited via a change request.
func ChangeRequestableField(field string) bool {
	return changeRequestFields[field]
}

// ChangeRequest is a proposed edit to a release that is locked against
// direct editing. Created by the owner, resolved by the role responsible for
// the release's current stage.
type ChangeRequest struct {
	RequestID      string              `json:"requestID"` // Primary Key (UUID)
	ReleaseID      string              `json:"releaseID"`
	Field          string              `json:"field"`
	CurrentValue   string              `json:"currentValue"`
	RequestedValue string              `json:"requestedValue"`
	Reason         string              `json:"reason"`
	Status         ChangeRequestStatus `json:"status"`
	ResolvedBy     *string             `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time          `json:"resolvedAt,omitempty"`
	AuditFields
}
