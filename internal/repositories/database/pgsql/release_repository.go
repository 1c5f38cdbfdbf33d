package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	"github.com/mscandco/distribution_backend/internal/models"
	"github.com/mscandco/distribution_backend/internal/utils/mapping"
	"github.com/mscandco/distribution_backend/internal/utils/pagination"
)

const releaseColumns = `release_id, artist_id, label_id, title, genre, release_type, artwork_url, release_date,
	       status, prior_status, split_config_id, version,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxReleaseRepository struct {
	BaseRepository
}

// newPgxReleaseRepository creates a new repository for release data.
func newPgxReleaseRepository(pool *pgxpool.Pool) portsrepo.ReleaseRepositoryFacade {
	return &PgxReleaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReleaseRepository implements portsrepo.ReleaseRepositoryFacade
var _ portsrepo.ReleaseRepositoryFacade = (*PgxReleaseRepository)(nil)

// insertAuditInTx writes one audit log row inside the caller's transaction,
// so the audit trail commits or rolls back with the change it describes.
func insertAuditInTx(ctx context.Context, tx pgx.Tx, audit domain.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (audit_id, entity_type, entity_id, action, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		audit.AuditID,
		audit.EntityType,
		audit.EntityID,
		audit.Action,
		audit.ActorID,
		audit.Detail,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry %s: %w", audit.AuditID, err)
	}
	return nil
}

func scanRelease(row pgx.Row) (*domain.Release, error) {
	var m models.Release
	err := row.Scan(
		&m.ReleaseID,
		&m.ArtistID,
		&m.LabelID,
		&m.Title,
		&m.Genre,
		&m.ReleaseType,
		&m.ArtworkURL,
		&m.ReleaseDate,
		&m.Status,
		&m.PriorStatus,
		&m.SplitConfigID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	release := mapping.ToDomainRelease(m)
	return &release, nil
}

func (r *PgxReleaseRepository) SaveRelease(ctx context.Context, release domain.Release) error {
	m := mapping.ToModelRelease(release)
	query := `
		INSERT INTO releases (` + releaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReleaseID,
		m.ArtistID,
		m.LabelID,
		m.Title,
		m.Genre,
		m.ReleaseType,
		m.ArtworkURL,
		m.ReleaseDate,
		m.Status,
		m.PriorStatus,
		m.SplitConfigID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert release "+m.ReleaseID, err)
	}
	return nil
}

func (r *PgxReleaseRepository) FindReleaseByID(ctx context.Context, releaseID string) (*domain.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE release_id = $1;`
	release, err := scanRelease(r.Pool.QueryRow(ctx, query, releaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find release by ID "+releaseID, err)
	}
	return release, nil
}

// ListReleases retrieves a token-paginated page of releases, newest first.
// When ownerID is set, only releases the user owns (as artist or label
// admin) are returned.
func (r *PgxReleaseRepository) ListReleases(ctx context.Context, ownerID *string, limit int, nextToken *string) ([]domain.Release, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + releaseColumns + ` FROM releases`
	// Guard clause always holds so the owner filter and cursor can both be
	// appended with AND.
	conditions := "WHERE true"
	args := []interface{}{}
	if ownerID != nil {
		conditions += ` AND (artist_id = $1 OR label_id = $1)`
		args = append(args, *ownerID)
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		conditions += ` AND (created_at, release_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	orderByClause := `ORDER BY created_at DESC, release_id DESC`
	query := baseQuery + " " + conditions + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query releases", err)
	}
	defer rows.Close()

	modelReleases := make([]models.Release, 0, fetchLimit)
	for rows.Next() {
		var m models.Release
		scanErr := rows.Scan(
			&m.ReleaseID,
			&m.ArtistID,
			&m.LabelID,
			&m.Title,
			&m.Genre,
			&m.ReleaseType,
			&m.ArtworkURL,
			&m.ReleaseDate,
			&m.Status,
			&m.PriorStatus,
			&m.SplitConfigID,
			&m.Version,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan release row", scanErr)
		}
		modelReleases = append(modelReleases, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating release rows", err)
	}

	var nextTokenVal *string
	results := modelReleases
	if len(modelReleases) > limit {
		last := modelReleases[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ReleaseID)
		nextTokenVal = &token
		results = modelReleases[:limit]
	}

	return mapping.ToDomainReleases(results), nextTokenVal, nil
}

// UpdateReleaseMetadata persists draft-stage edits guarded by the version
// column. A stale version means someone else updated the release first.
func (r *PgxReleaseRepository) UpdateReleaseMetadata(ctx context.Context, release domain.Release) error {
	m := mapping.ToModelRelease(release)
	query := `
		UPDATE releases
		SET title = $2,
		    genre = $3,
		    release_type = $4,
		    artwork_url = $5,
		    release_date = $6,
		    version = version + 1,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE release_id = $1 AND version = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ReleaseID,
		m.Title,
		m.Genre,
		m.ReleaseType,
		m.ArtworkURL,
		m.ReleaseDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update release "+m.ReleaseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the row is gone or the version is stale; distinguish so
		// callers can surface the right error.
		if _, findErr := r.FindReleaseByID(ctx, m.ReleaseID); findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// TransitionStatus atomically moves a release to a new status and writes the
// audit entry in the same transaction. The update is guarded by
// expectedVersion; a loser of a concurrent race gets ErrConflict.
func (r *PgxReleaseRepository) TransitionStatus(ctx context.Context, releaseID string, target domain.ReleaseStatus, priorStatus *domain.ReleaseStatus, expectedVersion int64, audit domain.AuditLogEntry) (*domain.Release, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var priorStatusStr *string
	if priorStatus != nil {
		s := string(*priorStatus)
		priorStatusStr = &s
	}

	query := `
		UPDATE releases
		SET status = $2,
		    prior_status = $3,
		    version = version + 1,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE release_id = $1 AND version = $6
		RETURNING ` + releaseColumns + `;
	`
	release, err := scanRelease(tx.QueryRow(ctx, query,
		releaseID,
		string(target),
		priorStatusStr,
		audit.CreatedAt,
		audit.ActorID,
		expectedVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row matched: missing release or stale version.
			if _, findErr := r.FindReleaseByID(ctx, releaseID); findErr != nil {
				return nil, findErr
			}
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.NewAppError(500, "failed to transition release "+releaseID, err)
	}

	if err := insertAuditInTx(ctx, tx, audit); err != nil {
		return nil, apperrors.NewAppError(500, "failed to record transition audit for release "+releaseID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return release, nil
}

type PgxChangeRequestRepository struct {
	BaseRepository
}

// newPgxChangeRequestRepository creates a new repository for change requests.
func newPgxChangeRequestRepository(pool *pgxpool.Pool) portsrepo.ChangeRequestRepositoryFacade {
	return &PgxChangeRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxChangeRequestRepository implements portsrepo.ChangeRequestRepositoryFacade
var _ portsrepo.ChangeRequestRepositoryFacade = (*PgxChangeRequestRepository)(nil)

const changeRequestColumns = `request_id, release_id, field, current_value, requested_value, reason, status,
	       resolved_by, resolved_at, created_at, created_by, last_updated_at, last_updated_by`

// releaseColumnForField maps a change-requestable field name to its column.
// The whitelist lives in the domain; this is the storage-side counterpart.
func releaseColumnForField(field string) (string, bool) {
	switch field {
	case "title":
		return "title", true
	case "genre":
		return "genre", true
	case "artwork_url":
		return "artwork_url", true
	case "release_date":
		return "release_date", true
	}
	return "", false
}

func (r *PgxChangeRequestRepository) SaveChangeRequest(ctx context.Context, req domain.ChangeRequest) error {
	m := mapping.ToModelChangeRequest(req)
	query := `
		INSERT INTO change_requests (` + changeRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.ReleaseID,
		m.Field,
		m.CurrentValue,
		m.RequestedValue,
		m.Reason,
		m.Status,
		m.ResolvedBy,
		m.ResolvedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert change request "+m.RequestID, err)
	}
	return nil
}

func (r *PgxChangeRequestRepository) FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error) {
	query := `SELECT ` + changeRequestColumns + ` FROM change_requests WHERE request_id = $1;`
	var m models.ChangeRequest
	err := r.Pool.QueryRow(ctx, query, requestID).Scan(
		&m.RequestID,
		&m.ReleaseID,
		&m.Field,
		&m.CurrentValue,
		&m.RequestedValue,
		&m.Reason,
		&m.Status,
		&m.ResolvedBy,
		&m.ResolvedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find change request "+requestID, err)
	}
	cr := mapping.ToDomainChangeRequest(m)
	return &cr, nil
}

func (r *PgxChangeRequestRepository) ListChangeRequestsByRelease(ctx context.Context, releaseID string) ([]domain.ChangeRequest, error) {
	query := `
		SELECT ` + changeRequestColumns + `
		FROM change_requests
		WHERE release_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, releaseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query change requests for release "+releaseID, err)
	}
	defer rows.Close()

	requests := []domain.ChangeRequest{}
	for rows.Next() {
		var m models.ChangeRequest
		if err := rows.Scan(
			&m.RequestID,
			&m.ReleaseID,
			&m.Field,
			&m.CurrentValue,
			&m.RequestedValue,
			&m.Reason,
			&m.Status,
			&m.ResolvedBy,
			&m.ResolvedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan change request row for release "+releaseID, err)
		}
		requests = append(requests, mapping.ToDomainChangeRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating change request rows for release "+releaseID, err)
	}
	return requests, nil
}

// ApplyChangeRequest marks the request approved and applies the field change
// to the release in one transaction. The release's lifecycle status and
// version are untouched: the change-request path never races the
// optimistic-locked transitions.
func (r *PgxChangeRequestRepository) ApplyChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error {
	column, ok := releaseColumnForField(req.Field)
	if !ok {
		return fmt.Errorf("%w: field %q is not change-requestable", apperrors.ErrValidation, req.Field)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateRequestStatusInTx(ctx, tx, req); err != nil {
		return err
	}

	var value interface{} = req.RequestedValue
	if req.Field == "release_date" {
		parsed, parseErr := time.Parse(time.RFC3339, req.RequestedValue)
		if parseErr != nil {
			return fmt.Errorf("%w: release_date %q is not RFC3339", apperrors.ErrValidation, req.RequestedValue)
		}
		value = parsed
	}

	// The column name comes from the whitelist above, never from input.
	releaseQuery := `
		UPDATE releases
		SET ` + column + ` = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE release_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, releaseQuery, req.ReleaseID, value, req.LastUpdatedAt, req.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply change request "+req.RequestID+" to release "+req.ReleaseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditInTx(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for change request "+req.RequestID, err)
	}

	return r.Commit(ctx, tx)
}

// RejectChangeRequest closes the request with no release mutation.
func (r *PgxChangeRequestRepository) RejectChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateRequestStatusInTx(ctx, tx, req); err != nil {
		return err
	}
	if err := insertAuditInTx(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for change request "+req.RequestID, err)
	}

	return r.Commit(ctx, tx)
}

// updateRequestStatusInTx resolves the request, conditional on it still
// being pending so two concurrent resolutions cannot both land.
func (r *PgxChangeRequestRepository) updateRequestStatusInTx(ctx context.Context, tx pgx.Tx, req domain.ChangeRequest) error {
	m := mapping.ToModelChangeRequest(req)
	query := `
		UPDATE change_requests
		SET status = $2,
		    resolved_by = $3,
		    resolved_at = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE request_id = $1 AND status = 'pending';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.RequestID,
		m.Status,
		m.ResolvedBy,
		m.ResolvedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve change request "+m.RequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
