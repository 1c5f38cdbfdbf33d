package pgsql

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	"github.com/mscandco/distribution_backend/internal/models"
	"github.com/mscandco/distribution_backend/internal/utils/mapping"
)

const revenueColumns = `record_id, source_platform, source_record_id, release_id, gross_amount, currency_code,
	       period, split_config_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxRevenueRepository struct {
	BaseRepository
}

// newPgxRevenueRepository creates a new repository for revenue records.
func newPgxRevenueRepository(pool *pgxpool.Pool) portsrepo.RevenueRepositoryFacade {
	return &PgxRevenueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRevenueRepository implements portsrepo.RevenueRepositoryFacade
var _ portsrepo.RevenueRepositoryFacade = (*PgxRevenueRepository)(nil)

// SaveRecordWithEntries inserts the revenue record, all of its ledger
// entries and the wallet balance projections in one database transaction.
// The unique index on (source_platform, source_record_id) makes the insert
// the idempotency gate: the loser of a concurrent double-delivery gets
// ErrDuplicate with nothing written.
func (r *PgxRevenueRepository) SaveRecordWithEntries(ctx context.Context, record domain.RevenueRecord, entries []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRevenueRecord(record)
	recordQuery := `
		INSERT INTO revenue_records (` + revenueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, recordQuery,
		m.RecordID,
		m.SourcePlatform,
		m.SourceRecordID,
		m.ReleaseID,
		m.GrossAmount,
		m.CurrencyCode,
		m.Period,
		m.SplitConfigID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert revenue record "+m.RecordID, err)
	}

	// Lock wallets in a stable order so two concurrent ingestions touching
	// the same accounts cannot deadlock.
	sorted := make([]domain.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AccountID < sorted[j].AccountID
	})

	for _, entry := range sorted {
		if _, err := applyEntryInTx(ctx, tx, entry); err != nil {
			return apperrors.NewAppError(500, "failed to apply ledger entry for revenue record "+m.RecordID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxRevenueRepository) FindRecordBySource(ctx context.Context, sourcePlatform, sourceRecordID string) (*domain.RevenueRecord, error) {
	query := `
		SELECT ` + revenueColumns + `
		FROM revenue_records
		WHERE source_platform = $1 AND source_record_id = $2;
	`
	var m models.RevenueRecord
	err := r.Pool.QueryRow(ctx, query, sourcePlatform, sourceRecordID).Scan(
		&m.RecordID,
		&m.SourcePlatform,
		&m.SourceRecordID,
		&m.ReleaseID,
		&m.GrossAmount,
		&m.CurrencyCode,
		&m.Period,
		&m.SplitConfigID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find revenue record by source "+sourcePlatform+"/"+sourceRecordID, err)
	}
	record := mapping.ToDomainRevenueRecord(m)
	return &record, nil
}

// FindEntriesByReference retrieves the ledger entries written against one
// reference, in insertion order.
func (r *PgxRevenueRepository) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE reference_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, referenceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries for reference "+referenceID, err)
	}
	defer rows.Close()

	modelEntries := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.AccountID,
			&m.Amount,
			&m.CurrencyCode,
			&m.Reason,
			&m.ReferenceID,
			&m.OriginalEntryID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row for reference "+referenceID, err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows for reference "+referenceID, err)
	}

	return mapping.ToDomainLedgerEntries(modelEntries), nil
}
