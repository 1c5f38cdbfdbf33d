package ports

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayoutInstruction is the opaque submission handed to the payment rail.
type PayoutInstruction struct {
	RequestID    string
	Amount       decimal.Decimal
	CurrencyCode string
	Method       domain.PayoutMethod
	Destination  string
}

// PayoutOutcome is the rail's acknowledgement of an accepted payout.
type PayoutOutcome struct {
	ProviderRef string
}

// PaymentRail is the outbound port to the external bank-transfer/e-wallet
// provider. Implementations classify failures via
// apperrors.ExternalPayoutError so the payout manager can decide between
// retrying and failing terminally. A context deadline must be honored; a
// timed-out call may still have succeeded on the provider side.
type PaymentRail interface {
	SubmitPayout(ctx context.Context, instruction PayoutInstruction) (*PayoutOutcome, error)
}
