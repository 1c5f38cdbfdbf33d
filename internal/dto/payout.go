package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePayoutRequest is a withdrawal request against the caller's wallet.
type CreatePayoutRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	Method      domain.PayoutMethod `json:"method" binding:"required"`
	Destination string              `json:"destination" binding:"required"`
}

// PayoutResponse defines the data returned for a payout request.
type PayoutResponse struct {
	RequestID     string              `json:"requestID"`
	AccountID     string              `json:"accountID"`
	Amount        decimal.Decimal     `json:"amount"`
	CurrencyCode  string              `json:"currencyCode"`
	Method        domain.PayoutMethod `json:"method"`
	Status        domain.PayoutStatus `json:"status"`
	DebitEntryID  *string             `json:"debitEntryID,omitempty"`
	ProviderRef   *string             `json:"providerRef,omitempty"`
	FailureReason *string             `json:"failureReason,omitempty"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ListPayoutsParams holds pagination parameters for listing payouts.
type ListPayoutsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPayoutsResponse is the paginated payout listing.
type ListPayoutsResponse struct {
	Payouts   []PayoutResponse `json:"payouts"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToPayoutResponse converts a domain.PayoutRequest to its DTO.
func ToPayoutResponse(p *domain.PayoutRequest) PayoutResponse {
	return PayoutResponse{
		RequestID:     p.RequestID,
		AccountID:     p.AccountID,
		Amount:        p.Amount,
		CurrencyCode:  p.CurrencyCode,
		Method:        p.Method,
		Status:        p.Status,
		DebitEntryID:  p.DebitEntryID,
		ProviderRef:   p.ProviderRef,
		FailureReason: p.FailureReason,
		Attempts:      p.Attempts,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToPayoutResponses converts a slice of payout requests.
func ToPayoutResponses(payouts []domain.PayoutRequest) []PayoutResponse {
	res := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		res[i] = ToPayoutResponse(&payouts[i])
	}
	return res
}
