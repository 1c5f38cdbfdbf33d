package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	"github.com/mscandco/distribution_backend/internal/models"
	"github.com/mscandco/distribution_backend/internal/utils/mapping"
)

const splitColumns = `config_id, release_id, label_id, partner_fee_rate, artist_pct, label_pct, company_pct,
	       version, active, created_at, created_by, last_updated_at, last_updated_by`

type PgxSplitRepository struct {
	BaseRepository
}

// newPgxSplitRepository creates a new repository for split configurations.
func newPgxSplitRepository(pool *pgxpool.Pool) portsrepo.SplitRepositoryFacade {
	return &PgxSplitRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSplitRepository implements portsrepo.SplitRepositoryFacade
var _ portsrepo.SplitRepositoryFacade = (*PgxSplitRepository)(nil)

func scanSplitConfiguration(row pgx.Row) (*domain.SplitConfiguration, error) {
	var m models.SplitConfiguration
	err := row.Scan(
		&m.ConfigID,
		&m.ReleaseID,
		&m.LabelID,
		&m.PartnerFeeRate,
		&m.ArtistPct,
		&m.LabelPct,
		&m.CompanyPct,
		&m.Version,
		&m.Active,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	cfg := mapping.ToDomainSplitConfiguration(m)
	return &cfg, nil
}

func (r *PgxSplitRepository) SaveConfiguration(ctx context.Context, cfg domain.SplitConfiguration) error {
	return r.insertConfiguration(ctx, r.Pool, cfg)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// insertConfiguration works against either the pool or an open transaction.
func (r *PgxSplitRepository) insertConfiguration(ctx context.Context, q execer, cfg domain.SplitConfiguration) error {
	m := mapping.ToModelSplitConfiguration(cfg)
	query := `
		INSERT INTO split_configurations (` + splitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := q.Exec(ctx, query,
		m.ConfigID,
		m.ReleaseID,
		m.LabelID,
		m.PartnerFeeRate,
		m.ArtistPct,
		m.LabelPct,
		m.CompanyPct,
		m.Version,
		m.Active,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert split configuration "+m.ConfigID, err)
	}
	return nil
}

func (r *PgxSplitRepository) FindConfigurationByID(ctx context.Context, configID string) (*domain.SplitConfiguration, error) {
	query := `SELECT ` + splitColumns + ` FROM split_configurations WHERE config_id = $1;`
	cfg, err := scanSplitConfiguration(r.Pool.QueryRow(ctx, query, configID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find split configuration "+configID, err)
	}
	return cfg, nil
}

// FindActiveForRelease resolves the active configuration for a release. A
// release-scoped configuration wins; the label-scoped one is the fallback.
func (r *PgxSplitRepository) FindActiveForRelease(ctx context.Context, releaseID string, labelID *string) (*domain.SplitConfiguration, error) {
	query := `
		SELECT ` + splitColumns + `
		FROM split_configurations
		WHERE active AND release_id = $1
		ORDER BY version DESC
		LIMIT 1;
	`
	cfg, err := scanSplitConfiguration(r.Pool.QueryRow(ctx, query, releaseID))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(500, "failed to find split configuration for release "+releaseID, err)
	}

	if labelID == nil {
		return nil, apperrors.ErrNotFound
	}

	fallback := `
		SELECT ` + splitColumns + `
		FROM split_configurations
		WHERE active AND release_id IS NULL AND label_id = $1
		ORDER BY version DESC
		LIMIT 1;
	`
	cfg, err = scanSplitConfiguration(r.Pool.QueryRow(ctx, fallback, *labelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find split configuration for label "+*labelID, err)
	}
	return cfg, nil
}

// SupersedeConfiguration deactivates the old version and inserts its
// replacement atomically. The conditional update makes concurrent
// supersessions of the same version mutually exclusive.
func (r *PgxSplitRepository) SupersedeConfiguration(ctx context.Context, oldConfigID string, replacement domain.SplitConfiguration) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	deactivate := `
		UPDATE split_configurations
		SET active = false,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE config_id = $1 AND active;
	`
	cmdTag, err := tx.Exec(ctx, deactivate, oldConfigID, replacement.CreatedAt, replacement.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate split configuration "+oldConfigID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := r.insertConfiguration(ctx, tx, replacement); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// HasLedgerReferences reports whether any revenue record was split against
// the configuration.
func (r *PgxSplitRepository) HasLedgerReferences(ctx context.Context, configID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revenue_records WHERE split_config_id = $1);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, configID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check ledger references for split configuration "+configID, err)
	}
	return exists, nil
}
