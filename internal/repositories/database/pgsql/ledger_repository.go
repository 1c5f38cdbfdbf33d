package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	"github.com/mscandco/distribution_backend/internal/models"
	"github.com/mscandco/distribution_backend/internal/utils/mapping"
	"github.com/mscandco/distribution_backend/internal/utils/pagination"
)

const walletColumns = `account_id, owner_user_id, currency_code, negative_balance_allowed, credit_limit, balance,
	       created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, account_id, amount, currency_code, reason, reference_id, original_entry_id,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for wallets and ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanWallet(row pgx.Row) (*domain.WalletAccount, error) {
	var m models.WalletAccount
	err := row.Scan(
		&m.AccountID,
		&m.OwnerUserID,
		&m.CurrencyCode,
		&m.NegativeBalanceAllowed,
		&m.CreditLimit,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	wallet := mapping.ToDomainWalletAccount(m)
	return &wallet, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Reason,
		&m.ReferenceID,
		&m.OriginalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// lockWalletInTx reads the wallet row FOR UPDATE, serializing every balance
// mutation against it for the rest of the transaction.
func lockWalletInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.WalletAccount, error) {
	query := `SELECT ` + walletColumns + ` FROM wallet_accounts WHERE account_id = $1 FOR UPDATE;`
	wallet, err := scanWallet(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet %s: %w", accountID, err)
	}
	return wallet, nil
}

// insertEntryInTx writes one ledger entry row.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.AccountID,
		m.Amount,
		m.CurrencyCode,
		m.Reason,
		m.ReferenceID,
		m.OriginalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// updateWalletBalanceInTx moves the balance projection to its new value.
// Callers hold the wallet row lock.
func updateWalletBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE wallet_accounts
		SET balance = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, newBalance, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update balance for wallet %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// applyEntryInTx locks the wallet, enforces its funds policy, writes the
// entry and moves the projection. Returns the balance after the entry.
func applyEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) (decimal.Decimal, error) {
	wallet, err := lockWalletInTx(ctx, tx, entry.AccountID)
	if err != nil {
		return decimal.Zero, err
	}
	if !wallet.CanApply(entry.Amount) {
		return decimal.Zero, apperrors.ErrInsufficientFunds
	}
	if err := insertEntryInTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}
	newBalance := wallet.Balance.Add(entry.Amount)
	if err := updateWalletBalanceInTx(ctx, tx, entry.AccountID, newBalance, entry.CreatedBy, entry.LastUpdatedAt); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func (r *PgxLedgerRepository) SaveWallet(ctx context.Context, wallet domain.WalletAccount) error {
	m := mapping.ToModelWalletAccount(wallet)
	query := `
		INSERT INTO wallet_accounts (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.OwnerUserID,
		m.CurrencyCode,
		m.NegativeBalanceAllowed,
		m.CreditLimit,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert wallet "+m.AccountID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindWalletByID(ctx context.Context, accountID string) (*domain.WalletAccount, error) {
	query := `SELECT ` + walletColumns + ` FROM wallet_accounts WHERE account_id = $1;`
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find wallet "+accountID, err)
	}
	return wallet, nil
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	entry, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry "+entryID, err)
	}
	return entry, nil
}

// ListEntriesByAccount retrieves a token-paginated page of an account's
// ledger entries, newest first.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.AccountID,
			&m.Amount,
			&m.CurrencyCode,
			&m.Reason,
			&m.ReferenceID,
			&m.OriginalEntryID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for account "+accountID, err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainLedgerEntries(results), nextTokenVal, nil
}

// SumEntriesByAccount recomputes the balance from the entries themselves.
// A drift from the projection column indicates a bug, not a funds decision.
func (r *PgxLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = $1;`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger entries for account "+accountID, err)
	}
	return sum, nil
}

// AppendEntry appends one ledger entry and updates the balance projection
// in a single transaction with the wallet row locked.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	newBalance, err := applyEntryInTx(ctx, tx, entry)
	if err != nil {
		return decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
