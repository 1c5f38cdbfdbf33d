package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToModelRelease converts a domain Release to a model Release
func ToModelRelease(d domain.Release) models.Release {
	var prior *string
	if d.PriorStatus != nil {
		s := string(*d.PriorStatus)
		prior = &s
	}
	return models.Release{
		ReleaseID:     d.ReleaseID,
		ArtistID:      d.ArtistID,
		LabelID:       d.LabelID,
		Title:         d.Title,
		Genre:         d.Genre,
		ReleaseType:   d.ReleaseType,
		ArtworkURL:    d.ArtworkURL,
		ReleaseDate:   d.ReleaseDate,
		Status:        string(d.Status),
		PriorStatus:   prior,
		SplitConfigID: d.SplitConfigID,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRelease converts a model Release to a domain Release
func ToDomainRelease(m models.Release) domain.Release {
	var prior *domain.ReleaseStatus
	if m.PriorStatus != nil {
		s := domain.ReleaseStatus(*m.PriorStatus)
		prior = &s
	}
	return domain.Release{
		ReleaseID:     m.ReleaseID,
		ArtistID:      m.ArtistID,
		LabelID:       m.LabelID,
		Title:         m.Title,
		Genre:         m.Genre,
		ReleaseType:   m.ReleaseType,
		ArtworkURL:    m.ArtworkURL,
		ReleaseDate:   m.ReleaseDate,
		Status:        domain.ReleaseStatus(m.Status),
		PriorStatus:   prior,
		SplitConfigID: m.SplitConfigID,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReleases converts a slice of model Releases to domain Releases
func ToDomainReleases(ms []models.Release) []domain.Release {
	out := make([]domain.Release, len(ms))
	for i, m := range ms {
		out[i] = ToDomainRelease(m)
	}
	return out
}

// ToModelChangeRequest converts a domain ChangeRequest to a model ChangeRequest
func ToModelChangeRequest(d domain.ChangeRequest) models.ChangeRequest {
	return models.ChangeRequest{
		RequestID:      d.RequestID,
		ReleaseID:      d.ReleaseID,
		Field:          d.Field,
		CurrentValue:   d.CurrentValue,
		RequestedValue: d.RequestedValue,
		Reason:         d.Reason,
		Status:         string(d.Status),
		ResolvedBy:     d.ResolvedBy,
		ResolvedAt:     d.ResolvedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainChangeRequest converts a model ChangeRequest to a domain ChangeRequest
func ToDomainChangeRequest(m models.ChangeRequest) domain.ChangeRequest {
	return domain.ChangeRequest{
		RequestID:      m.RequestID,
		ReleaseID:      m.ReleaseID,
		Field:          m.Field,
		CurrentValue:   m.CurrentValue,
		RequestedValue: m.RequestedValue,
		Reason:         m.Reason,
		Status:         domain.ChangeRequestStatus(m.Status),
		ResolvedBy:     m.ResolvedBy,
		ResolvedAt:     m.ResolvedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
