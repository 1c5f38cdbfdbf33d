package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	"github.com/mscandco/distribution_backend/internal/models"
	"github.com/mscandco/distribution_backend/internal/utils/mapping"
)

type PgxAuditRepository struct {
	db *pgxpool.Pool
}

// newPgxAuditRepository creates a read-only repository for the audit log.
// Writes happen inside the transactions of the repositories whose changes
// they describe.
func newPgxAuditRepository(db *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{db: db}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) ListAuditByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLogEntry, error) {
	query := `
		SELECT audit_id, entity_type, entity_id, action, actor_id, detail, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, audit_id;
	`
	rows, err := r.db.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit log for "+entityType+" "+entityID, err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var m models.AuditLogEntry
		if err := rows.Scan(
			&m.AuditID,
			&m.EntityType,
			&m.EntityID,
			&m.Action,
			&m.ActorID,
			&m.Detail,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit log row for "+entityType+" "+entityID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit log rows for "+entityType+" "+entityID, err)
	}

	return mapping.ToDomainAuditLogEntries(entries), nil
}
