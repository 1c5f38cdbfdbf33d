package dto

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IngestRevenueRequest is one raw earnings line from a platform statement.
type IngestRevenueRequest struct {
	SourcePlatform string          `json:"sourcePlatform" binding:"required"`
	SourceRecordID string          `json:"sourceRecordID" binding:"required"`
	ReleaseID      string          `json:"releaseID" binding:"required"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	CurrencyCode   string          `json:"currencyCode" binding:"required"`
	Period         string          `json:"period" binding:"required,period"`
}

// BatchIngestRequest carries a statement batch.
type BatchIngestRequest struct {
	Records []IngestRevenueRequest `json:"records" binding:"required,min=1"`
}

// IngestResult is the outcome of ingesting one record. Duplicate is true
// when the record had already been ingested and the previously produced
// entries are returned.
type IngestResult struct {
	Record    RevenueRecordResponse `json:"record"`
	Entries   []LedgerEntryResponse `json:"entries"`
	Duplicate bool                  `json:"duplicate"`
}

// BatchIngestResult pairs one batch line with its result or error.
type BatchIngestResult struct {
	SourceRecordID string        `json:"sourceRecordID"`
	Result         *IngestResult `json:"result,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// RevenueRecordResponse defines the data returned for a revenue record.
type RevenueRecordResponse struct {
	RecordID       string          `json:"recordID"`
	SourcePlatform string          `json:"sourcePlatform"`
	SourceRecordID string          `json:"sourceRecordID"`
	ReleaseID      string          `json:"releaseID"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	Period         string          `json:"period"`
	SplitConfigID  string          `json:"splitConfigID"`
}

// ToRevenueRecordResponse converts a domain.RevenueRecord to its DTO.
func ToRevenueRecordResponse(r *domain.RevenueRecord) RevenueRecordResponse {
	return RevenueRecordResponse{
		RecordID:       r.RecordID,
		SourcePlatform: r.SourcePlatform,
		SourceRecordID: r.SourceRecordID,
		ReleaseID:      r.ReleaseID,
		GrossAmount:    r.GrossAmount,
		CurrencyCode:   r.CurrencyCode,
		Period:         r.Period,
		SplitConfigID:  r.SplitConfigID,
	}
}
