package repositories

import (
	"context"
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayoutRepositoryFacade defines persistence for payout requests. The
// status-advancing methods are conditional updates: they only fire when the
// request is still in the expected state, so two concurrent approvals cannot
// both succeed.
type PayoutRepositoryFacade interface {
	// SavePayoutRequest inserts a new pending request.
	SavePayoutRequest(ctx context.Context, req domain.PayoutRequest) error

	// FindPayoutRequestByID retrieves a payout request by ID.
	FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error)

	// ListPayoutsByAccount retrieves a token-paginated list of an account's
	// payout requests, newest first.
	ListPayoutsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error)

	// ListProcessingOlderThan retrieves processing requests whose last update
	// precedes the cutoff; these are settlement timeouts awaiting
	// reconciliation.
	ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PayoutRequest, error)

	// ApproveWithDebit moves a pending request to processing and writes the
	// wallet debit in one transaction, re-deriving the balance under the
	// wallet row lock. This closes the window between request creation and
	// approval. Returns apperrors.ErrInsufficientFunds when the re-check
	// fails and apperrors.ErrConflict when the request is no longer pending.
	ApproveWithDebit(ctx context.Context, requestID string, debit domain.LedgerEntry, approverID string, now time.Time) (*domain.PayoutRequest, decimal.Decimal, error)

	// MarkCompleted moves a processing request to completed.
	MarkCompleted(ctx context.Context, requestID string, providerRef *string, attempts int, now time.Time) error

	// MarkFailedWithRefund moves a processing request to failed and writes
	// the compensating credit in the same transaction, so the wallet is never
	// left short against an unsent payout.
	MarkFailedWithRefund(ctx context.Context, requestID string, refund domain.LedgerEntry, failureReason string, attempts int, now time.Time) error

	// MarkCancelled moves a pending request to cancelled; no ledger effect
	// because the debit is only written at approval.
	MarkCancelled(ctx context.Context, requestID string, actorID string, now time.Time) error
}
