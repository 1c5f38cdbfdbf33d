package services

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// RevenueSvcFacade ingests raw platform earnings and splits them into
// ledger entries.
type RevenueSvcFacade interface {
	// Ingest processes one earnings record, idempotent on
	// (sourcePlatform, sourceRecordID); redelivery returns the entries the
	// first delivery produced, never double-counting.
	Ingest(ctx context.Context, req dto.IngestRevenueRequest, principal domain.Principal) (*dto.IngestResult, error)

	// IngestBatch processes a statement batch record by record, tolerating
	// partial failure; each record carries its own result.
	IngestBatch(ctx context.Context, reqs []dto.IngestRevenueRequest, principal domain.Principal) ([]dto.BatchIngestResult, error)

	// EntriesForRecord returns the ledger entries produced for an ingested
	// record.
	EntriesForRecord(ctx context.Context, sourcePlatform, sourceRecordID string, principal domain.Principal) ([]domain.LedgerEntry, error)
}
