package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyEntryRequest is an admin adjustment against a wallet.
type ApplyEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"referenceID" binding:"required"`
	Note        string          `json:"note"`
}

// SubscriptionDebitRequest charges a subscription fee against a wallet.
type SubscriptionDebitRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"referenceID" binding:"required"`
}

// BalanceResponse reports a wallet's projected position.
type BalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Balance      decimal.Decimal `json:"balance"`
	Available    decimal.Decimal `json:"available"`
	CurrencyCode string          `json:"currencyCode"`
}

// ReconciliationResponse compares a wallet's balance projection against
// the sum recomputed from its ledger entries.
type ReconciliationResponse struct {
	AccountID  string          `json:"accountID"`
	Balance    decimal.Decimal `json:"balance"`
	EntrySum   decimal.Decimal `json:"entrySum"`
	Consistent bool            `json:"consistent"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID         string             `json:"entryID"`
	AccountID       string             `json:"accountID"`
	Amount          decimal.Decimal    `json:"amount"`
	CurrencyCode    string             `json:"currencyCode"`
	Reason          domain.EntryReason `json:"reason"`
	ReferenceID     string             `json:"referenceID"`
	OriginalEntryID *string            `json:"originalEntryID,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ListEntriesParams holds pagination parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is the paginated ledger entry listing.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToBalanceResponse converts a wallet to a BalanceResponse.
func ToBalanceResponse(w *domain.WalletAccount) BalanceResponse {
	return BalanceResponse{
		AccountID:    w.AccountID,
		Balance:      w.Balance,
		Available:    w.Available(),
		CurrencyCode: w.CurrencyCode,
	}
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		AccountID:       e.AccountID,
		Amount:          e.Amount,
		CurrencyCode:    e.CurrencyCode,
		Reason:          e.Reason,
		ReferenceID:     e.ReferenceID,
		OriginalEntryID: e.OriginalEntryID,
		CreatedAt:       e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}
