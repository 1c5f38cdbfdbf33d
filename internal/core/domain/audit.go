package domain

import "time"

// AuditLogEntry records one state-changing action against a core entity.
// Written in the same database transaction as the change it describes.
type AuditLogEntry struct {
	AuditID    string    `json:"auditID"` // Primary Key (UUID)
	EntityType string    `json:"entityType"` // release, payout_request, change_request, split_configuration
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorID"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}
