package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// revenueService ingests raw earnings lines and decomposes them into ledger
// entries per the release's active split configuration. Ingestion is
// idempotent on (source_platform, source_record_id).
type revenueService struct {
	revenueRepo portsrepo.RevenueRepositoryFacade
	releaseRepo portsrepo.ReleaseRepositoryFacade
	splitRepo   portsrepo.SplitRepositoryFacade

	companyAccountID    string
	partnerFeeAccountID string
}

// NewRevenueService creates a new revenue ingestion service. The company and
// partner-fee account IDs are the platform-owned wallets credited with the
// company share and the distribution partner's fee.
func NewRevenueService(
	revenueRepo portsrepo.RevenueRepositoryFacade,
	releaseRepo portsrepo.ReleaseRepositoryFacade,
	splitRepo portsrepo.SplitRepositoryFacade,
	companyAccountID string,
	partnerFeeAccountID string,
) portssvc.RevenueSvcFacade {
	return &revenueService{
		revenueRepo:         revenueRepo,
		releaseRepo:         releaseRepo,
		splitRepo:           splitRepo,
		companyAccountID:    companyAccountID,
		partnerFeeAccountID: partnerFeeAccountID,
	}
}

var _ portssvc.RevenueSvcFacade = (*revenueService)(nil)

// buildEntries emits one credit per stakeholder plus the partner fee credit.
// Zero-amount shares produce no entry. A release without a label folds the
// label share into the company share so nothing leaks.
func (s *revenueService) buildEntries(record domain.RevenueRecord, release *domain.Release, result domain.SplitResult, now time.Time, actorID string) []domain.LedgerEntry {
	credit := func(accountID string, amount decimal.Decimal, reason domain.EntryReason) domain.LedgerEntry {
		return domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			AccountID:    accountID,
			Amount:       amount,
			CurrencyCode: record.CurrencyCode,
			Reason:       reason,
			ReferenceID:  record.RecordID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	labelShare := result.LabelShare
	companyShare := result.CompanyShare
	if release.LabelID == nil {
		companyShare = companyShare.Add(labelShare)
		labelShare = decimal.Zero
	}

	entries := make([]domain.LedgerEntry, 0, 4)
	if !result.ArtistShare.IsZero() {
		entries = append(entries, credit(release.ArtistID, result.ArtistShare, domain.ReasonRevenueShare))
	}
	if !labelShare.IsZero() {
		entries = append(entries, credit(*release.LabelID, labelShare, domain.ReasonRevenueShare))
	}
	if !companyShare.IsZero() {
		entries = append(entries, credit(s.companyAccountID, companyShare, domain.ReasonRevenueShare))
	}
	if !result.PartnerFee.IsZero() {
		entries = append(entries, credit(s.partnerFeeAccountID, result.PartnerFee, domain.ReasonPartnerFee))
	}
	return entries
}

func (s *revenueService) duplicateResult(ctx context.Context, sourcePlatform, sourceRecordID string) (*dto.IngestResult, error) {
	record, err := s.revenueRepo.FindRecordBySource(ctx, sourcePlatform, sourceRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read revenue record %s/%s: %w", sourcePlatform, sourceRecordID, err)
	}
	entries, err := s.revenueRepo.FindEntriesByReference(ctx, record.RecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries for revenue record %s: %w", record.RecordID, err)
	}
	return &dto.IngestResult{
		Record:    dto.ToRevenueRecordResponse(record),
		Entries:   dto.ToLedgerEntryResponses(entries),
		Duplicate: true,
	}, nil
}

func (s *revenueService) Ingest(ctx context.Context, req dto.IngestRevenueRequest, principal domain.Principal) (*dto.IngestResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapRevenueIngest) {
		return nil, fmt.Errorf("%w: role %s cannot ingest revenue", apperrors.ErrForbidden, principal.Role)
	}
	if req.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: gross amount %s must be positive", apperrors.ErrValidation, req.GrossAmount)
	}

	// Fast idempotency path: a redelivered record returns the original
	// entries without recomputing anything.
	if existing, err := s.revenueRepo.FindRecordBySource(ctx, req.SourcePlatform, req.SourceRecordID); err == nil {
		entries, err := s.revenueRepo.FindEntriesByReference(ctx, existing.RecordID)
		if err != nil {
			return nil, fmt.Errorf("failed to read entries for revenue record %s: %w", existing.RecordID, err)
		}
		return &dto.IngestResult{
			Record:    dto.ToRevenueRecordResponse(existing),
			Entries:   dto.ToLedgerEntryResponses(entries),
			Duplicate: true,
		}, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check revenue record %s/%s: %w", req.SourcePlatform, req.SourceRecordID, err)
	}

	release, err := s.releaseRepo.FindReleaseByID(ctx, req.ReleaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find release %s: %w", req.ReleaseID, err)
	}

	cfg, err := s.splitRepo.FindActiveForRelease(ctx, release.ReleaseID, release.LabelID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: release %s has no active split configuration", apperrors.ErrMissingConfiguration, release.ReleaseID)
		}
		return nil, fmt.Errorf("failed to resolve split configuration for release %s: %w", release.ReleaseID, err)
	}

	now := time.Now()
	record := domain.RevenueRecord{
		RecordID:       uuid.NewString(),
		SourcePlatform: req.SourcePlatform,
		SourceRecordID: req.SourceRecordID,
		ReleaseID:      release.ReleaseID,
		GrossAmount:    req.GrossAmount,
		CurrencyCode:   req.CurrencyCode,
		Period:         req.Period,
		SplitConfigID:  cfg.ConfigID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	result := cfg.Split(req.GrossAmount)
	entries := s.buildEntries(record, release, result, now, principal.UserID)

	if err := s.revenueRepo.SaveRecordWithEntries(ctx, record, entries); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a concurrent race for the same source record; the
			// winner's entries are the canonical result.
			logger.Info("concurrent duplicate revenue record, returning winner",
				slog.String("source_platform", req.SourcePlatform),
				slog.String("source_record_id", req.SourceRecordID))
			return s.duplicateResult(ctx, req.SourcePlatform, req.SourceRecordID)
		}
		logger.Error("failed to save revenue record", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save revenue record: %w", err)
	}

	logger.Info("revenue ingested",
		slog.String("record_id", record.RecordID),
		slog.String("release_id", release.ReleaseID),
		slog.String("gross", req.GrossAmount.String()),
		slog.Int("entries", len(entries)))

	return &dto.IngestResult{
		Record:  dto.ToRevenueRecordResponse(&record),
		Entries: dto.ToLedgerEntryResponses(entries),
	}, nil
}

func (s *revenueService) IngestBatch(ctx context.Context, reqs []dto.IngestRevenueRequest, principal domain.Principal) ([]dto.BatchIngestResult, error) {
	if !principal.Role.Can(domain.CapRevenueIngest) {
		return nil, fmt.Errorf("%w: role %s cannot ingest revenue", apperrors.ErrForbidden, principal.Role)
	}

	results := make([]dto.BatchIngestResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := s.Ingest(ctx, req, principal)
		if err != nil {
			results = append(results, dto.BatchIngestResult{
				SourceRecordID: req.SourceRecordID,
				Error:          err.Error(),
			})
			continue
		}
		results = append(results, dto.BatchIngestResult{
			SourceRecordID: req.SourceRecordID,
			Result:         res,
		})
	}
	return results, nil
}

func (s *revenueService) EntriesForRecord(ctx context.Context, sourcePlatform, sourceRecordID string, principal domain.Principal) ([]domain.LedgerEntry, error) {
	if !principal.Role.Can(domain.CapRevenueIngest) && !principal.Role.Can(domain.CapDistributionWriteAny) {
		return nil, fmt.Errorf("%w: role %s cannot read revenue records", apperrors.ErrForbidden, principal.Role)
	}

	record, err := s.revenueRepo.FindRecordBySource(ctx, sourcePlatform, sourceRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find revenue record %s/%s: %w", sourcePlatform, sourceRecordID, err)
	}
	return s.revenueRepo.FindEntriesByReference(ctx, record.RecordID)
}
