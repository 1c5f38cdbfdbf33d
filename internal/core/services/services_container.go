package services

import (
	"github.com/mscandco/distribution_backend/internal/core/ports"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rail ports.PaymentRail, notifier ports.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Release = NewReleaseService(repos.ReleaseRepo, repos.ChangeRequestRepo, repos.SplitRepo, repos.AuditRepo, notifier)
	container.Split = NewSplitService(repos.SplitRepo, repos.ReleaseRepo)
	container.Revenue = NewRevenueService(repos.RevenueRepo, repos.ReleaseRepo, repos.SplitRepo, cfg.CompanyRevenueAccountID, cfg.PartnerFeeAccountID)
	container.Wallet = NewWalletService(repos.LedgerRepo, cfg.DefaultCurrency)
	container.Payout = NewPayoutService(repos.PayoutRepo, repos.LedgerRepo, rail, notifier, cfg.MinimumPayoutThreshold, cfg.PayoutMaxRetries)
	container.User = NewUserService(repos.UserRepo, container.Wallet, cfg)

	return container
}
