package services

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// WalletSvcFacade exposes the append-only wallet ledger.
type WalletSvcFacade interface {
	// CreateWalletForUser provisions a wallet at registration time.
	CreateWalletForUser(ctx context.Context, user *domain.User) (*domain.WalletAccount, error)

	// Balance returns the wallet with its projected balance. Owners read
	// their own wallet; wallet:read:any reads anyone's.
	Balance(ctx context.Context, accountID string, principal domain.Principal) (*domain.WalletAccount, error)

	// ListEntries returns a token-paginated view of an account's entries.
	ListEntries(ctx context.Context, accountID string, principal domain.Principal, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ApplyAdjustment appends an admin adjustment entry and returns the new
	// balance.
	ApplyAdjustment(ctx context.Context, accountID string, req dto.ApplyEntryRequest, principal domain.Principal) (*dto.BalanceResponse, error)

	// Reverse appends a compensating entry negating the original; the
	// original is never mutated.
	Reverse(ctx context.Context, entryID string, principal domain.Principal) (*domain.LedgerEntry, error)

	// DebitSubscription draws a subscription charge from the wallet under
	// the standard funds policy.
	DebitSubscription(ctx context.Context, accountID string, amount decimal.Decimal, referenceID string, principal domain.Principal) (*dto.BalanceResponse, error)

	// ReconcileBalance recomputes the balance from the entries themselves
	// and compares it against the stored projection.
	ReconcileBalance(ctx context.Context, accountID string, principal domain.Principal) (*dto.ReconciliationResponse, error)
}
