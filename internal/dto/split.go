package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSplitConfigRequest defines a new split configuration version.
// Exactly one of ReleaseID/LabelID scopes the agreement.
type CreateSplitConfigRequest struct {
	ReleaseID      *string         `json:"releaseID"`
	LabelID        *string         `json:"labelID"`
	PartnerFeeRate decimal.Decimal `json:"partnerFeeRate"`
	ArtistPct      decimal.Decimal `json:"artistPct"`
	LabelPct       decimal.Decimal `json:"labelPct"`
	CompanyPct     decimal.Decimal `json:"companyPct"`
}

// SplitConfigResponse defines the data returned for a split configuration.
type SplitConfigResponse struct {
	ConfigID       string          `json:"configID"`
	ReleaseID      *string         `json:"releaseID,omitempty"`
	LabelID        *string         `json:"labelID,omitempty"`
	PartnerFeeRate decimal.Decimal `json:"partnerFeeRate"`
	ArtistPct      decimal.Decimal `json:"artistPct"`
	LabelPct       decimal.Decimal `json:"labelPct"`
	CompanyPct     decimal.Decimal `json:"companyPct"`
	Version        int64           `json:"version"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SupersedeConfigResponse reports the replacement configuration and whether
// the superseded version is already referenced by ingested revenue. A
// referenced version stays queryable forever; its historical splits are
// not recomputed under the new percentages.
type SupersedeConfigResponse struct {
	Config                 SplitConfigResponse `json:"config"`
	PriorVersionReferenced bool                `json:"priorVersionReferenced"`
}

// ToSplitConfigResponse converts a domain.SplitConfiguration to its DTO.
func ToSplitConfigResponse(c *domain.SplitConfiguration) SplitConfigResponse {
	return SplitConfigResponse{
		ConfigID:       c.ConfigID,
		ReleaseID:      c.ReleaseID,
		LabelID:        c.LabelID,
		PartnerFeeRate: c.PartnerFeeRate,
		ArtistPct:      c.ArtistPct,
		LabelPct:       c.LabelPct,
		CompanyPct:     c.CompanyPct,
		Version:        c.Version,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
	}
}
