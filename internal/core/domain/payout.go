package domain

import "github.com/shopspring/decimal"

// PayoutStatus tracks a withdrawal request through its lifecycle. Status is
// advanced only by the payout request manager.
type PayoutStatus string

// Approval moves a request straight from pending to processing (the debit
// is written in the same transaction), and a failed settlement is undone
// with a reversal ledger entry rather than a dedicated request status.
const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
	PayoutCancelled  PayoutStatus = "cancelled"
)

// PayoutMethod is the external rail a payout is sent over.
type PayoutMethod string

const (
	MethodBankTransfer PayoutMethod = "bank_transfer"
	MethodPaypal       PayoutMethod = "paypal"
	MethodCrypto       PayoutMethod = "crypto"
)

// ValidPayoutMethod reports whether m is a supported payout method.
func ValidPayoutMethod(m PayoutMethod) bool {
	switch m {
	case MethodBankTransfer, MethodPaypal, MethodCrypto:
		return true
	}
	return false
}

// PayoutRequest is a withdrawal request against a wallet. The wallet debit
// is written at approval time, inside the same transaction that re-checks
// funds; a failed settlement is compensated by a reversal entry.
type PayoutRequest struct {
	RequestID     string          `json:"requestID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"` // positive
	CurrencyCode  string          `json:"currencyCode"`
	Method        PayoutMethod    `json:"method"`
	Destination   string          `json:"destination"` // opaque rail-specific address
	Status        PayoutStatus    `json:"status"`
	DebitEntryID  *string         `json:"debitEntryID,omitempty"`
	ProviderRef   *string         `json:"providerRef,omitempty"`
	FailureReason *string         `json:"failureReason,omitempty"`
	Attempts      int             `json:"attempts"`
	AuditFields
}
