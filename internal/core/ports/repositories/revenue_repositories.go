package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// RevenueRepositoryFacade defines persistence for revenue records and their
// ledger side effects.
type RevenueRepositoryFacade interface {
	// SaveRecordWithEntries atomically inserts the revenue record, all of its
	// ledger entries, and the wallet balance projections, in one database
	// transaction with the affected wallet rows locked. A unique-key
	// violation on (source_platform, source_record_id) surfaces as
	// apperrors.ErrDuplicate with nothing written.
	SaveRecordWithEntries(ctx context.Context, record domain.RevenueRecord, entries []domain.LedgerEntry) error

	// FindRecordBySource retrieves a record by its external idempotency key.
	FindRecordBySource(ctx context.Context, sourcePlatform, sourceRecordID string) (*domain.RevenueRecord, error)

	// FindEntriesByReference retrieves the ledger entries produced for a
	// revenue record (or any other reference).
	FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error)
}
