package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/core/ports"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// payoutService manages withdrawal requests against wallets. The funds
// check at request time is advisory; the binding check happens at approval
// inside the repository transaction that writes the debit.
type payoutService struct {
	payoutRepo portsrepo.PayoutRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	rail       ports.PaymentRail
	notifier   ports.Notifier

	minimumThreshold decimal.Decimal
	maxRetries       int
}

// NewPayoutService creates a new payout request manager.
func NewPayoutService(
	payoutRepo portsrepo.PayoutRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	rail ports.PaymentRail,
	notifier ports.Notifier,
	minimumThreshold decimal.Decimal,
	maxRetries int,
) portssvc.PayoutSvcFacade {
	return &payoutService{
		payoutRepo:       payoutRepo,
		ledgerRepo:       ledgerRepo,
		rail:             rail,
		notifier:         notifier,
		minimumThreshold: minimumThreshold,
		maxRetries:       maxRetries,
	}
}

var _ portssvc.PayoutSvcFacade = (*payoutService)(nil)

func (s *payoutService) RequestPayout(ctx context.Context, req dto.CreatePayoutRequest, principal domain.Principal) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThan(s.minimumThreshold) {
		return nil, fmt.Errorf("%w: amount %s is below the minimum payout threshold %s", apperrors.ErrValidation, req.Amount, s.minimumThreshold)
	}
	if !domain.ValidPayoutMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown payout method %q", apperrors.ErrValidation, req.Method)
	}

	wallet, err := s.ledgerRepo.FindWalletByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", principal.UserID, err)
	}
	// Advisory check only; approval re-derives the balance under lock.
	if req.Amount.GreaterThan(wallet.Available()) {
		return nil, fmt.Errorf("%w: amount %s exceeds available balance %s", apperrors.ErrInsufficientFunds, req.Amount, wallet.Available())
	}

	now := time.Now()
	payout := domain.PayoutRequest{
		RequestID:    uuid.NewString(),
		AccountID:    wallet.AccountID,
		Amount:       req.Amount,
		CurrencyCode: wallet.CurrencyCode,
		Method:       req.Method,
		Destination:  req.Destination,
		Status:       domain.PayoutPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	if err := s.payoutRepo.SavePayoutRequest(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to save payout request: %w", err)
	}

	logger.Info("payout requested",
		slog.String("request_id", payout.RequestID),
		slog.String("account_id", payout.AccountID),
		slog.String("amount", payout.Amount.String()))
	return &payout, nil
}

func (s *payoutService) Approve(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapPayoutApprove) {
		return nil, fmt.Errorf("%w: role %s cannot approve payouts", apperrors.ErrForbidden, principal.Role)
	}

	payout, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	if payout.Status != domain.PayoutPending {
		return nil, fmt.Errorf("%w: payout request %s is %s, not pending", apperrors.ErrConflict, requestID, payout.Status)
	}

	now := time.Now()
	debit := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    payout.AccountID,
		Amount:       payout.Amount.Neg(),
		CurrencyCode: payout.CurrencyCode,
		Reason:       domain.ReasonPayout,
		ReferenceID:  payout.RequestID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	approved, balance, err := s.payoutRepo.ApproveWithDebit(ctx, requestID, debit, principal.UserID, now)
	if err != nil {
		logger.Error("payout approval failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to approve payout request %s: %w", requestID, err)
	}

	logger.Info("payout approved",
		slog.String("request_id", requestID),
		slog.String("debit_entry_id", debit.EntryID),
		slog.String("balance", balance.String()))
	return approved, nil
}

// submitWithBackoff drives the payment rail, retrying transient failures
// with bounded exponential backoff. Returns the attempt count alongside the
// outcome or terminal error.
func (s *payoutService) submitWithBackoff(ctx context.Context, instruction ports.PayoutInstruction) (*ports.PayoutOutcome, int, error) {
	var outcome *ports.PayoutOutcome
	attempts := 0

	operation := func() error {
		attempts++
		res, err := s.rail.SubmitPayout(ctx, instruction)
		if err != nil {
			if apperrors.IsRetryablePayoutError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		outcome = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, attempts, err
	}
	return outcome, attempts, nil
}

func (s *payoutService) Settle(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapPayoutApprove) {
		return nil, fmt.Errorf("%w: role %s cannot settle payouts", apperrors.ErrForbidden, principal.Role)
	}

	payout, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	if payout.Status != domain.PayoutProcessing {
		return nil, fmt.Errorf("%w: payout request %s is %s, not processing", apperrors.ErrConflict, requestID, payout.Status)
	}

	instruction := ports.PayoutInstruction{
		RequestID:    payout.RequestID,
		Amount:       payout.Amount,
		CurrencyCode: payout.CurrencyCode,
		Method:       payout.Method,
		Destination:  payout.Destination,
	}

	outcome, attempts, err := s.submitWithBackoff(ctx, instruction)
	totalAttempts := payout.Attempts + attempts
	now := time.Now()

	if err != nil {
		// A timed-out call may still have succeeded on the provider side;
		// the request stays processing for the reconciliation pass.
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("payout settlement timed out, leaving processing",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("payout settlement for %s timed out: %w", requestID, err)
		}

		// Terminal or retry-exhausted failure: fail the request and credit
		// the wallet back in the same transaction.
		if payout.DebitEntryID == nil {
			return nil, fmt.Errorf("payout request %s is processing without a debit entry", requestID)
		}
		debit, findErr := s.ledgerRepo.FindEntryByID(ctx, *payout.DebitEntryID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to find debit entry %s: %w", *payout.DebitEntryID, findErr)
		}
		refund := debit.Reversal(uuid.NewString())
		refund.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		}

		if markErr := s.payoutRepo.MarkFailedWithRefund(ctx, requestID, refund, err.Error(), totalAttempts, now); markErr != nil {
			return nil, fmt.Errorf("failed to mark payout %s failed: %w", requestID, markErr)
		}

		s.notifier.Publish(ctx, ports.Event{
			Type:       ports.EventPayoutFailed,
			EntityID:   requestID,
			OccurredAt: now,
			Payload:    map[string]any{"accountID": payout.AccountID, "reason": err.Error()},
		})

		logger.Error("payout settlement failed",
			slog.String("request_id", requestID),
			slog.Int("attempts", totalAttempts),
			slog.String("error", err.Error()))

		failureReason := err.Error()
		payout.Status = domain.PayoutFailed
		payout.FailureReason = &failureReason
		payout.Attempts = totalAttempts
		payout.LastUpdatedAt = now
		payout.LastUpdatedBy = principal.UserID
		return payout, nil
	}

	if err := s.payoutRepo.MarkCompleted(ctx, requestID, &outcome.ProviderRef, totalAttempts, now); err != nil {
		return nil, fmt.Errorf("failed to mark payout %s completed: %w", requestID, err)
	}

	s.notifier.Publish(ctx, ports.Event{
		Type:       ports.EventPayoutCompleted,
		EntityID:   requestID,
		OccurredAt: now,
		Payload:    map[string]any{"accountID": payout.AccountID, "providerRef": outcome.ProviderRef},
	})

	logger.Info("payout completed",
		slog.String("request_id", requestID),
		slog.String("provider_ref", outcome.ProviderRef),
		slog.Int("attempts", totalAttempts))

	payout.Status = domain.PayoutCompleted
	payout.ProviderRef = &outcome.ProviderRef
	payout.Attempts = totalAttempts
	payout.LastUpdatedAt = now
	payout.LastUpdatedBy = principal.UserID
	return payout, nil
}

func (s *payoutService) Cancel(ctx context.Context, requestID string, principal domain.Principal) (*domain.PayoutRequest, error) {
	payout, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	if payout.AccountID != principal.UserID && !principal.Role.Can(domain.CapPayoutApprove) {
		return nil, fmt.Errorf("%w: payout request %s can only be cancelled by its requester", apperrors.ErrForbidden, requestID)
	}
	if payout.Status != domain.PayoutPending {
		return nil, fmt.Errorf("%w: payout request %s is %s, not pending", apperrors.ErrConflict, requestID, payout.Status)
	}

	now := time.Now()
	if err := s.payoutRepo.MarkCancelled(ctx, requestID, principal.UserID, now); err != nil {
		return nil, fmt.Errorf("failed to cancel payout request %s: %w", requestID, err)
	}

	payout.Status = domain.PayoutCancelled
	payout.LastUpdatedAt = now
	payout.LastUpdatedBy = principal.UserID
	return payout, nil
}

func (s *payoutService) ListPayouts(ctx context.Context, accountID string, principal domain.Principal, params dto.ListPayoutsParams) (*dto.ListPayoutsResponse, error) {
	if accountID != principal.UserID && !principal.Role.Can(domain.CapWalletReadAny) {
		return nil, fmt.Errorf("%w: payouts for account %s are not visible to user %s", apperrors.ErrForbidden, accountID, principal.UserID)
	}

	payouts, nextToken, err := s.payoutRepo.ListPayoutsByAccount(ctx, accountID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts for account %s: %w", accountID, err)
	}
	return &dto.ListPayoutsResponse{
		Payouts:   dto.ToPayoutResponses(payouts),
		NextToken: nextToken,
	}, nil
}

func (s *payoutService) ListStuckPayouts(ctx context.Context, olderThan time.Duration, principal domain.Principal) ([]domain.PayoutRequest, error) {
	if !principal.Role.Can(domain.CapPayoutApprove) {
		return nil, fmt.Errorf("%w: role %s cannot list stuck payouts", apperrors.ErrForbidden, principal.Role)
	}
	cutoff := time.Now().Add(-olderThan)
	return s.payoutRepo.ListProcessingOlderThan(ctx, cutoff)
}
