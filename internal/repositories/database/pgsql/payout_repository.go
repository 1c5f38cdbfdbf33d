package pgsql

import (
	"context"
	"errors"
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

const payoutColumns = `request_id, account_id, amount, currency_code, method, destination, status,
	       debit_entry_id, provider_ref, failure_reason, attempts,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxPayoutRepository struct {
	BaseRepository
}

// newPgxPayoutRepository creates a new repository for payout requests.
func newPgxPayoutRepository(pool *pgxpool.Pool) portsrepo.PayoutRepositoryFacade {
	return &PgxPayoutRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPayoutRepository implements portsrepo.PayoutRepositoryFacade
var _ portsrepo.PayoutRepositoryFacade = (*PgxPayoutRepository)(nil)

func scanPayoutRequest(row pgx.Row) (*domain.PayoutRequest, error) {
	var m models.PayoutRequest
	err := row.Scan(
		&m.RequestID,
		&m.AccountID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Method,
		&m.Destination,
		&m.Status,
		&m.DebitEntryID,
		&m.ProviderRef,
		&m.FailureReason,
		&m.Attempts,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	req := mapping.ToDomainPayoutRequest(m)
	return &req, nil
}

func (r *PgxPayoutRepository) SavePayoutRequest(ctx context.Context, req domain.PayoutRequest) error {
	m := mapping.ToModelPayoutRequest(req)
	query := `
		INSERT INTO payout_requests (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.AccountID,
		m.Amount,
		m.CurrencyCode,
		m.Method,
		m.Destination,
		m.Status,
		m.DebitEntryID,
		m.ProviderRef,
		m.FailureReason,
		m.Attempts,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payout request "+m.RequestID, err)
	}
	return nil
}

func (r *PgxPayoutRepository) FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE request_id = $1;`
	req, err := scanPayoutRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payout request "+requestID, err)
	}
	return req, nil
}

// ListPayoutsByAccount retrieves a token-paginated page of an account's
// payout requests, newest first.
func (r *PgxPayoutRepository) ListPayoutsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE account_id = $1`
	orderByClause := `ORDER BY created_at DESC, request_id DESC`
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (created_at, request_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payout requests for account "+accountID, err)
	}
	defer rows.Close()

	modelRequests, err := collectPayoutRows(rows, fetchLimit)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelRequests
	if len(modelRequests) > limit {
		last := modelRequests[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
		results = modelRequests[:limit]
	}

	return mapping.ToDomainPayoutRequests(results), nextTokenVal, nil
}

// ListProcessingOlderThan retrieves processing requests whose last update
// precedes the cutoff. These are settlements that timed out mid-flight and
// need operator reconciliation.
func (r *PgxPayoutRepository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PayoutRequest, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payout_requests
		WHERE status = 'processing' AND last_updated_at < $1
		ORDER BY last_updated_at;
	`
	rows, err := r.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query processing payout requests", err)
	}
	defer rows.Close()

	modelRequests, err := collectPayoutRows(rows, 0)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainPayoutRequests(modelRequests), nil
}

func collectPayoutRows(rows pgx.Rows, capacity int) ([]models.PayoutRequest, error) {
	modelRequests := make([]models.PayoutRequest, 0, capacity)
	for rows.Next() {
		var m models.PayoutRequest
		if err := rows.Scan(
			&m.RequestID,
			&m.AccountID,
			&m.Amount,
			&m.CurrencyCode,
			&m.Method,
			&m.Destination,
			&m.Status,
			&m.DebitEntryID,
			&m.ProviderRef,
			&m.FailureReason,
			&m.Attempts,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payout request row", err)
		}
		modelRequests = append(modelRequests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payout request rows", err)
	}
	return modelRequests, nil
}

// ApproveWithDebit moves a pending request to processing and writes the
// wallet debit in one transaction. The funds re-check runs under the wallet
// row lock, closing the window between request creation and approval.
func (r *PgxPayoutRepository) ApproveWithDebit(ctx context.Context, requestID string, debit domain.LedgerEntry, approverID string, now time.Time) (*domain.PayoutRequest, decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	// Conditional on pending: a second concurrent approval matches no row.
	query := `
		UPDATE payout_requests
		SET status = 'processing',
		    debit_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE request_id = $1 AND status = 'pending'
		RETURNING ` + payoutColumns + `;
	`
	req, err := scanPayoutRequest(tx.QueryRow(ctx, query, requestID, debit.EntryID, now, approverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, findErr := r.FindPayoutRequestByID(ctx, requestID); findErr != nil {
				return nil, decimal.Zero, findErr
			}
			return nil, decimal.Zero, apperrors.ErrConflict
		}
		return nil, decimal.Zero, apperrors.NewAppError(500, "failed to approve payout request "+requestID, err)
	}

	newBalance, err := applyEntryInTx(ctx, tx, debit)
	if err != nil {
		// ErrInsufficientFunds rolls the approval back with the debit.
		return nil, decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, decimal.Zero, err
	}
	return req, newBalance, nil
}

// MarkCompleted moves a processing request to completed.
func (r *PgxPayoutRepository) MarkCompleted(ctx context.Context, requestID string, providerRef *string, attempts int, now time.Time) error {
	query := `
		UPDATE payout_requests
		SET status = 'completed',
		    provider_ref = $2,
		    attempts = $3,
		    last_updated_at = $4
		WHERE request_id = $1 AND status = 'processing';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, requestID, providerRef, attempts, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to complete payout request "+requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// MarkFailedWithRefund moves a processing request to failed and writes the
// compensating credit in the same transaction, so the wallet is never left
// short against a payout that was never sent.
func (r *PgxPayoutRepository) MarkFailedWithRefund(ctx context.Context, requestID string, refund domain.LedgerEntry, failureReason string, attempts int, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE payout_requests
		SET status = 'failed',
		    failure_reason = $2,
		    attempts = $3,
		    last_updated_at = $4
		WHERE request_id = $1 AND status = 'processing';
	`
	cmdTag, err := tx.Exec(ctx, query, requestID, failureReason, attempts, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to fail payout request "+requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if _, err := applyEntryInTx(ctx, tx, refund); err != nil {
		return apperrors.NewAppError(500, "failed to refund payout request "+requestID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkCancelled withdraws a pending request. No ledger effect: the debit is
// only written at approval.
func (r *PgxPayoutRepository) MarkCancelled(ctx context.Context, requestID string, actorID string, now time.Time) error {
	query := `
		UPDATE payout_requests
		SET status = 'cancelled',
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE request_id = $1 AND status = 'pending';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, requestID, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel payout request "+requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
