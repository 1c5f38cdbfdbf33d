package services

import (
	"context"
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// PayoutSvcFacade validates and sequences payout requests against the
// wallet ledger and drives the external payment rail.
type PayoutSvcFacade interface {
	// RequestPayout validates the amount against the threshold and the
	// current balance and creates a pending request.
	RequestPayout(ctx context.Context, req dto.CreatePayoutRequest, principal domain.Principal) (*domain.PayoutRequest, error)

	// Approve re-validates funds at approval time, writes the wallet debit
	// and moves the request to processing.
	Approve(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error)

	// Settle drives the external rail with bounded retries. Success
	// completes the request; terminal failure fails it and refunds the
	// debit; a context timeout leaves it processing for reconciliation.
	Settle(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error)

	// Cancel withdraws a still-pending request.
	Cancel(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error)

	// ListPayouts lists an account's payout requests.
	ListPayouts(ctx context.Context, accountID string, principal domain.Principal, params dto.ListPayoutsParams) (*dto.ListPayoutsResponse, error)

	// ListStuckPayouts surfaces processing requests older than the cutoff
	// for manual reconciliation.
	ListStuckPayouts(ctx context.Context, olderThan time.Duration, principal domain.Principal) ([]domain.PayoutRequest, error)
}
