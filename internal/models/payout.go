package models

import "github.com/shopspring/decimal"

// PayoutRequest mirrors the payout_requests table.
type PayoutRequest struct {
	RequestID     string          `db:"request_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	Method        string          `db:"method"`
	Destination   string          `db:"destination"`
	Status        string          `db:"status"`
	DebitEntryID  *string         `db:"debit_entry_id"`
	ProviderRef   *string         `db:"provider_ref"`
	FailureReason *string         `db:"failure_reason"`
	Attempts      int             `db:"attempts"`
	AuditFields
}
