package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToModelRevenueRecord converts a domain RevenueRecord to its model
func ToModelRevenueRecord(d domain.RevenueRecord) models.RevenueRecord {
	return models.RevenueRecord{
		RecordID:       d.RecordID,
		SourcePlatform: d.SourcePlatform,
		SourceRecordID: d.SourceRecordID,
		ReleaseID:      d.ReleaseID,
		GrossAmount:    d.GrossAmount,
		CurrencyCode:   d.CurrencyCode,
		Period:         d.Period,
		SplitConfigID:  d.SplitConfigID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRevenueRecord converts a model RevenueRecord to its domain form
func ToDomainRevenueRecord(m models.RevenueRecord) domain.RevenueRecord {
	return domain.RevenueRecord{
		RecordID:       m.RecordID,
		SourcePlatform: m.SourcePlatform,
		SourceRecordID: m.SourceRecordID,
		ReleaseID:      m.ReleaseID,
		GrossAmount:    m.GrossAmount,
		CurrencyCode:   m.CurrencyCode,
		Period:         m.Period,
		SplitConfigID:  m.SplitConfigID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
