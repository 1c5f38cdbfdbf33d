package models

import "github.com/shopspring/decimal"

// LedgerEntry mirrors the ledger_entries table.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	Reason          string          `db:"reason"`
	ReferenceID     string          `db:"reference_id"`
	OriginalEntryID *string         `db:"original_entry_id"`
	AuditFields
}

// WalletAccount mirrors the wallet_accounts table. Balance is the
// projection column maintained transactionally with every entry insert.
type WalletAccount struct {
	AccountID              string          `db:"account_id"`
	OwnerUserID            string          `db:"owner_user_id"`
	CurrencyCode           string          `db:"currency_code"`
	NegativeBalanceAllowed bool            `db:"negative_balance_allowed"`
	CreditLimit            decimal.Decimal `db:"credit_limit"`
	Balance                decimal.Decimal `db:"balance"`
	AuditFields
}
