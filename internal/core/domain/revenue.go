package domain

import "github.com/shopspring/decimal"

// RevenueRecord is one raw earnings line reported by a platform for a
// period. Created once by ingestion and never mutated; uniquely keyed by
// (SourcePlatform, SourceRecordID) so redelivered statements cannot
// double-count.
type RevenueRecord struct {
	RecordID       string          `json:"recordID"` // Primary Key (UUID)
	SourcePlatform string          `json:"sourcePlatform"`
	SourceRecordID string          `json:"sourceRecordID"`
	ReleaseID      string          `json:"releaseID"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	Period         string          `json:"period"` // e.g. "2026-07"
	SplitConfigID  string          `json:"splitConfigID"`
	AuditFields
}
