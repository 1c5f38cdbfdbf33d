package models

import "time"

// AuditLogEntry mirrors the audit_log table.
type AuditLogEntry struct {
	AuditID    string    `db:"audit_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	ActorID    string    `db:"actor_id"`
	Detail     string    `db:"detail"`
	CreatedAt  time.Time `db:"created_at"`
}
