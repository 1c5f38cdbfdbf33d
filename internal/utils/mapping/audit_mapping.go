package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToDomainAuditLogEntry converts a model AuditLogEntry to its domain form
func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.AuditLogEntry {
	return domain.AuditLogEntry{
		AuditID:    m.AuditID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     m.Action,
		ActorID:    m.ActorID,
		Detail:     m.Detail,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainAuditLogEntries converts a slice of model AuditLogEntries to domain form
func ToDomainAuditLogEntries(ms []models.AuditLogEntry) []domain.AuditLogEntry {
	out := make([]domain.AuditLogEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAuditLogEntry(m)
	}
	return out
}
