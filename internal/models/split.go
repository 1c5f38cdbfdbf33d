package models

import "github.com/shopspring/decimal"

// SplitConfiguration mirrors the split_configurations table.
type SplitConfiguration struct {
	ConfigID       string          `db:"config_id"`
	ReleaseID      *string         `db:"release_id"`
	LabelID        *string         `db:"label_id"`
	PartnerFeeRate decimal.Decimal `db:"partner_fee_rate"`
	ArtistPct      decimal.Decimal `db:"artist_pct"`
	LabelPct       decimal.Decimal `db:"label_pct"`
	CompanyPct     decimal.Decimal `db:"company_pct"`
	Version        int64           `db:"version"`
	Active         bool            `db:"active"`
	AuditFields
}
