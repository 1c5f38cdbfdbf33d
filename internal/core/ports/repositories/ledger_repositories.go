package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for wallets and ledger entries.
type LedgerReader interface {
	// FindWalletByID retrieves a wallet account with its balance projection.
	FindWalletByID(ctx context.Context, accountID string) (*domain.WalletAccount, error)

	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a token-paginated list of an account's
	// entries, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// SumEntriesByAccount recomputes the balance from the entries themselves.
	// Used to validate the projection, never for funds decisions.
	SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerWriter defines write operations for wallets and ledger entries.
type LedgerWriter interface {
	// SaveWallet inserts a new wallet account.
	SaveWallet(ctx context.Context, wallet domain.WalletAccount) error

	// AppendEntry appends a ledger entry and updates the balance projection
	// in one transaction with the wallet row locked. Debits that would push
	// the balance below the account's floor fail with
	// apperrors.ErrInsufficientFunds and write nothing. Returns the new
	// balance.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines ledger reader and writer interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
