package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	releaseRepo := newPgxReleaseRepository(dbPool)
	changeRequestRepo := newPgxChangeRequestRepository(dbPool)
	splitRepo := newPgxSplitRepository(dbPool)
	revenueRepo := newPgxRevenueRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	payoutRepo := newPgxPayoutRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ReleaseRepo:       releaseRepo,
		ChangeRequestRepo: changeRequestRepo,
		SplitRepo:         splitRepo,
		RevenueRepo:       revenueRepo,
		LedgerRepo:        ledgerRepo,
		PayoutRepo:        payoutRepo,
		UserRepo:          userRepo,
		AuditRepo:         auditRepo,
	}
}
