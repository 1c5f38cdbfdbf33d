package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToModelSplitConfiguration converts a domain SplitConfiguration to its model
func ToModelSplitConfiguration(d domain.SplitConfiguration) models.SplitConfiguration {
	return models.SplitConfiguration{
		ConfigID:       d.ConfigID,
		ReleaseID:      d.ReleaseID,
		LabelID:        d.LabelID,
		PartnerFeeRate: d.PartnerFeeRate,
		ArtistPct:      d.ArtistPct,
		LabelPct:       d.LabelPct,
		CompanyPct:     d.CompanyPct,
		Version:        d.Version,
		Active:         d.Active,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSplitConfiguration converts a model SplitConfiguration to its domain form
func ToDomainSplitConfiguration(m models.SplitConfiguration) domain.SplitConfiguration {
	return domain.SplitConfiguration{
		ConfigID:       m.ConfigID,
		ReleaseID:      m.ReleaseID,
		LabelID:        m.LabelID,
		PartnerFeeRate: m.PartnerFeeRate,
		ArtistPct:      m.ArtistPct,
		LabelPct:       m.LabelPct,
		CompanyPct:     m.CompanyPct,
		Version:        m.Version,
		Active:         m.Active,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
