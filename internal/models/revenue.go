package models

import "github.com/shopspring/decimal"

// RevenueRecord mirrors the revenue_records table.
type RevenueRecord struct {
	RecordID       string          `db:"record_id"`
	SourcePlatform string          `db:"source_platform"`
	SourceRecordID string          `db:"source_record_id"`
	ReleaseID      string          `db:"release_id"`
	GrossAmount    decimal.Decimal `db:"gross_amount"`
	CurrencyCode   string          `db:"currency_code"`
	Period         string          `db:"period"`
	SplitConfigID  string          `db:"split_config_id"`
	AuditFields
}
