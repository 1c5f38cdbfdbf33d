package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// walletService exposes the append-only wallet ledger. Every balance used
// for a funds decision is derived inside the repository transaction that
// writes the entry, never from a cached read.
type walletService struct {
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	defaultCurrency string
}

// NewWalletService creates a new wallet ledger service.
func NewWalletService(ledgerRepo portsrepo.LedgerRepositoryFacade, defaultCurrency string) portssvc.WalletSvcFacade {
	return &walletService{ledgerRepo: ledgerRepo, defaultCurrency: defaultCurrency}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// canRead reports whether the principal may read the account: owners read
// their own wallet, wallet:read:any reads anyone's.
func canRead(wallet *domain.WalletAccount, principal domain.Principal) bool {
	return wallet.OwnerUserID == principal.UserID || principal.Role.Can(domain.CapWalletReadAny)
}

func (s *walletService) CreateWalletForUser(ctx context.Context, user *domain.User) (*domain.WalletAccount, error) {
	now := time.Now()
	wallet := domain.WalletAccount{
		AccountID:    user.UserID,
		OwnerUserID:  user.UserID,
		CurrencyCode: s.defaultCurrency,
		CreditLimit:  decimal.Zero,
		Balance:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: user.UserID,
		},
	}
	if err := s.ledgerRepo.SaveWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %s: %w", user.UserID, err)
	}
	return &wallet, nil
}

func (s *walletService) Balance(ctx context.Context, accountID string, principal domain.Principal) (*domain.WalletAccount, error) {
	wallet, err := s.ledgerRepo.FindWalletByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", accountID, err)
	}
	if !canRead(wallet, principal) {
		return nil, fmt.Errorf("%w: wallet %s is not visible to user %s", apperrors.ErrForbidden, accountID, principal.UserID)
	}
	return wallet, nil
}

// ReconcileBalance validates the balance projection against the entries it
// projects. A mismatch means an entry was written outside the repository's
// transactional path and needs operator attention.
func (s *walletService) ReconcileBalance(ctx context.Context, accountID string, principal domain.Principal) (*dto.ReconciliationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapWalletReadAny) {
		return nil, fmt.Errorf("%w: role %s cannot reconcile wallets", apperrors.ErrForbidden, principal.Role)
	}

	wallet, err := s.ledgerRepo.FindWalletByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", accountID, err)
	}
	sum, err := s.ledgerRepo.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum entries for wallet %s: %w", accountID, err)
	}

	consistent := wallet.Balance.Equal(sum)
	if !consistent {
		logger.Error("wallet balance projection out of sync",
			slog.String("account_id", accountID),
			slog.String("balance", wallet.Balance.String()),
			slog.String("entry_sum", sum.String()))
	}
	return &dto.ReconciliationResponse{
		AccountID:  accountID,
		Balance:    wallet.Balance,
		EntrySum:   sum,
		Consistent: consistent,
	}, nil
}

func (s *walletService) ListEntries(ctx context.Context, accountID string, principal domain.Principal, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	wallet, err := s.ledgerRepo.FindWalletByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", accountID, err)
	}
	if !canRead(wallet, principal) {
		return nil, fmt.Errorf("%w: wallet %s is not visible to user %s", apperrors.ErrForbidden, accountID, principal.UserID)
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for wallet %s: %w", accountID, err)
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *walletService) ApplyAdjustment(ctx context.Context, accountID string, req dto.ApplyEntryRequest, principal domain.Principal) (*dto.BalanceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapWalletAdjust) {
		return nil, fmt.Errorf("%w: role %s cannot adjust wallets", apperrors.ErrForbidden, principal.Role)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must be non-zero", apperrors.ErrValidation)
	}

	wallet, err := s.ledgerRepo.FindWalletByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", accountID, err)
	}

	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    accountID,
		Amount:       req.Amount,
		CurrencyCode: wallet.CurrencyCode,
		Reason:       domain.ReasonAdjustment,
		ReferenceID:  req.ReferenceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	balance, err := s.ledgerRepo.AppendEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to apply adjustment to wallet %s: %w", accountID, err)
	}

	logger.Info("wallet adjusted",
		slog.String("account_id", accountID),
		slog.String("amount", req.Amount.String()),
		slog.String("balance", balance.String()))

	wallet.Balance = balance
	resp := dto.ToBalanceResponse(wallet)
	return &resp, nil
}

func (s *walletService) Reverse(ctx context.Context, entryID string, principal domain.Principal) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !principal.Role.Can(domain.CapWalletAdjust) {
		return nil, fmt.Errorf("%w: role %s cannot reverse ledger entries", apperrors.ErrForbidden, principal.Role)
	}

	original, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	if original.Reason == domain.ReasonReversal {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrValidation, entryID)
	}

	now := time.Now()
	reversal := original.Reversal(uuid.NewString())
	reversal.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     principal.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: principal.UserID,
	}

	if _, err := s.ledgerRepo.AppendEntry(ctx, reversal); err != nil {
		return nil, fmt.Errorf("failed to reverse ledger entry %s: %w", entryID, err)
	}

	logger.Info("ledger entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	return &reversal, nil
}

func (s *walletService) DebitSubscription(ctx context.Context, accountID string, amount decimal.Decimal, referenceID string, principal domain.Principal) (*dto.BalanceResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: subscription amount %s must be positive", apperrors.ErrValidation, amount)
	}

	wallet, err := s.ledgerRepo.FindWalletByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", accountID, err)
	}
	if wallet.OwnerUserID != principal.UserID && !principal.Role.Can(domain.CapWalletAdjust) {
		return nil, fmt.Errorf("%w: wallet %s cannot be debited by user %s", apperrors.ErrForbidden, accountID, principal.UserID)
	}

	now := time.Now()
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    accountID,
		Amount:       amount.Neg(),
		CurrencyCode: wallet.CurrencyCode,
		Reason:       domain.ReasonSubscriptionDebit,
		ReferenceID:  referenceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	balance, err := s.ledgerRepo.AppendEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to debit subscription from wallet %s: %w", accountID, err)
	}

	wallet.Balance = balance
	resp := dto.ToBalanceResponse(wallet)
	return &resp, nil
}
