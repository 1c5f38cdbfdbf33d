package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// AuditRepositoryFacade defines read access to the audit log. Writes happen
// inside the transactions of the repositories whose changes they describe.
type AuditRepositoryFacade interface {
	// ListAuditByEntity retrieves the audit trail for one entity, oldest
	// first.
	ListAuditByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLogEntry, error)
}
