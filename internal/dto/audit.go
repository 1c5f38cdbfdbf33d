package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// AuditLogResponse defines the data returned for one audit log entry.
type AuditLogResponse struct {
	AuditID    string    `json:"auditID"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorID"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToAuditLogResponses converts a slice of audit entries.
func ToAuditLogResponses(entries []domain.AuditLogEntry) []AuditLogResponse {
	res := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditLogResponse{
			AuditID:    e.AuditID,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			ActorID:    e.ActorID,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt,
		}
	}
	return res
}
