package domain

import "github.com/shopspring/decimal"

// EntryReason classifies a ledger entry.
type EntryReason string

const (
	ReasonRevenueShare      EntryReason = "revenue_share"
	ReasonPartnerFee        EntryReason = "partner_fee"
	ReasonPayout            EntryReason = "payout"
	ReasonSubscriptionDebit EntryReason = "subscription_debit"
	ReasonReversal          EntryReason = "reversal"
	ReasonAdjustment        EntryReason = "adjustment"
)

// LedgerEntry is a single signed, immutable monetary movement against one
// wallet account. Entries are append-only: a mistake is corrected by a new
// compensating entry, never by editing or deleting the original.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"` // Primary Key (UUID)
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"` // signed; negative = debit
	CurrencyCode    string          `json:"currencyCode"`
	Reason          EntryReason     `json:"reason"`
	ReferenceID     string          `json:"referenceID"` // RevenueRecord or PayoutRequest ID
	OriginalEntryID *string         `json:"originalEntryID,omitempty"` // set on reversals
	AuditFields
}

// Reversal builds the compensating entry for this one. The sign flips, the
// reason becomes reversal, and the original is referenced for the audit
// trail.
func (e *LedgerEntry) Reversal(newID string) LedgerEntry {
	orig := e.EntryID
	return LedgerEntry{
		EntryID:         newID,
		AccountID:       e.AccountID,
		Amount:          e.Amount.Neg(),
		CurrencyCode:    e.CurrencyCode,
		Reason:          ReasonReversal,
		ReferenceID:     e.ReferenceID,
		OriginalEntryID: &orig,
	}
}
