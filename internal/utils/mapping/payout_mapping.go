package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToModelPayoutRequest converts a domain PayoutRequest to its model
func ToModelPayoutRequest(d domain.PayoutRequest) models.PayoutRequest {
	return models.PayoutRequest{
		RequestID:     d.RequestID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Method:        string(d.Method),
		Destination:   d.Destination,
		Status:        string(d.Status),
		DebitEntryID:  d.DebitEntryID,
		ProviderRef:   d.ProviderRef,
		FailureReason: d.FailureReason,
		Attempts:      d.Attempts,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayoutRequest converts a model PayoutRequest to its domain form
func ToDomainPayoutRequest(m models.PayoutRequest) domain.PayoutRequest {
	return domain.PayoutRequest{
		RequestID:     m.RequestID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Method:        domain.PayoutMethod(m.Method),
		Destination:   m.Destination,
		Status:        domain.PayoutStatus(m.Status),
		DebitEntryID:  m.DebitEntryID,
		ProviderRef:   m.ProviderRef,
		FailureReason: m.FailureReason,
		Attempts:      m.Attempts,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayoutRequests converts a slice of model PayoutRequests to domain form
func ToDomainPayoutRequests(ms []models.PayoutRequest) []domain.PayoutRequest {
	out := make([]domain.PayoutRequest, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPayoutRequest(m)
	}
	return out
}
