package domain

import "github.com/shopspring/decimal"

// WalletAccount is a user's or label's monetary position. Balance is a
// projection of the account's ledger entries, updated in the same database
// transaction as every entry insert; it is never an independently stored,
// unsynchronized value.
type WalletAccount struct {
	AccountID              string          `json:"accountID"` // Primary Key; user ID for personal wallets
	OwnerUserID            string          `json:"ownerUserID"`
	CurrencyCode           string          `json:"currencyCode"`
	NegativeBalanceAllowed bool            `json:"negativeBalanceAllowed"`
	CreditLimit            decimal.Decimal `json:"creditLimit"`
	Balance                decimal.Decimal `json:"balance"`
	AuditFields
}

// Floor returns the lowest balance this account may reach.
func (w *WalletAccount) Floor() decimal.Decimal {
	if w.NegativeBalanceAllowed {
		return w.CreditLimit.Neg()
	}
	return decimal.Zero
}

// CanApply reports whether applying the signed amount keeps the balance at
// or above the account's floor. Credits always pass.
func (w *WalletAccount) CanApply(amount decimal.Decimal) bool {
	if amount.Sign() >= 0 {
		return true
	}
	return w.Balance.Add(amount).GreaterThanOrEqual(w.Floor())
}

// Available returns the amount withdrawable right now.
func (w *WalletAccount) Available() decimal.Decimal {
	return w.Balance.Sub(w.Floor())
}
