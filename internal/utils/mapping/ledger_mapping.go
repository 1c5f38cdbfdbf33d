package mapping

import (
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to its model
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		Reason:          string(d.Reason),
		ReferenceID:     d.ReferenceID,
		OriginalEntryID: d.OriginalEntryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to its domain form
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		Reason:          domain.EntryReason(m.Reason),
		ReferenceID:     m.ReferenceID,
		OriginalEntryID: m.OriginalEntryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntries converts a slice of model LedgerEntries to domain entries
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}

// ToModelWalletAccount converts a domain WalletAccount to its model
func ToModelWalletAccount(d domain.WalletAccount) models.WalletAccount {
	return models.WalletAccount{
		AccountID:              d.AccountID,
		OwnerUserID:            d.OwnerUserID,
		CurrencyCode:           d.CurrencyCode,
		NegativeBalanceAllowed: d.NegativeBalanceAllowed,
		CreditLimit:            d.CreditLimit,
		Balance:                d.Balance,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWalletAccount converts a model WalletAccount to its domain form
func ToDomainWalletAccount(m models.WalletAccount) domain.WalletAccount {
	return domain.WalletAccount{
		AccountID:              m.AccountID,
		OwnerUserID:            m.OwnerUserID,
		CurrencyCode:           m.CurrencyCode,
		NegativeBalanceAllowed: m.NegativeBalanceAllowed,
		CreditLimit:            m.CreditLimit,
		Balance:                m.Balance,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}
