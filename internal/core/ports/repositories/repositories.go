package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ReleaseRepo       ReleaseRepositoryFacade
	ChangeRequestRepo ChangeRequestRepositoryFacade
	SplitRepo         SplitRepositoryFacade
	RevenueRepo       RevenueRepositoryFacade
	LedgerRepo        LedgerRepositoryFacade
	PayoutRepo        PayoutRepositoryFacade
	UserRepo          UserRepositoryFacade
	AuditRepo         AuditRepositoryFacade
}
