package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/core/ports"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// MockReleaseRepository is a mock type for the ReleaseRepositoryFacade interface
type MockReleaseRepository struct {
	mock.Mock
}

func (m *MockReleaseRepository) FindReleaseByID(ctx context.Context, releaseID string) (*domain.Release, error) {
	args := m.Called(ctx, releaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}

func (m *MockReleaseRepository) ListReleases(ctx context.Context, ownerID *string, limit int, nextToken *string) ([]domain.Release, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Release), token, args.Error(2)
}

func (m *MockReleaseRepository) SaveRelease(ctx context.Context, release domain.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockReleaseRepository) UpdateReleaseMetadata(ctx context.Context, release domain.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockReleaseRepository) TransitionStatus(ctx context.Context, releaseID string, target domain.ReleaseStatus, priorStatus *domain.ReleaseStatus, expectedVersion int64, audit domain.AuditLogEntry) (*domain.Release, error) {
	args := m.Called(ctx, releaseID, target, priorStatus, expectedVersion, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}

// MockChangeRequestRepository is a mock type for the ChangeRequestRepositoryFacade interface
type MockChangeRequestRepository struct {
	mock.Mock
}

func (m *MockChangeRequestRepository) SaveChangeRequest(ctx context.Context, req domain.ChangeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) FindChangeRequestByID(ctx context.Context, requestID string) (*domain.ChangeRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) ListChangeRequestsByRelease(ctx context.Context, releaseID string) ([]domain.ChangeRequest, error) {
	args := m.Called(ctx, releaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) ApplyChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, req, audit)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) RejectChangeRequest(ctx context.Context, req domain.ChangeRequest, audit domain.AuditLogEntry) error {
	args := m.Called(ctx, req, audit)
	return args.Error(0)
}

// MockSplitRepository is a mock type for the SplitRepositoryFacade interface
type MockSplitRepository struct {
	mock.Mock
}

func (m *MockSplitRepository) SaveConfiguration(ctx context.Context, cfg domain.SplitConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockSplitRepository) FindConfigurationByID(ctx context.Context, configID string) (*domain.SplitConfiguration, error) {
	args := m.Called(ctx, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitConfiguration), args.Error(1)
}

func (m *MockSplitRepository) FindActiveForRelease(ctx context.Context, releaseID string, labelID *string) (*domain.SplitConfiguration, error) {
	args := m.Called(ctx, releaseID, labelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SplitConfiguration), args.Error(1)
}

func (m *MockSplitRepository) SupersedeConfiguration(ctx context.Context, oldConfigID string, replacement domain.SplitConfiguration) error {
	args := m.Called(ctx, oldConfigID, replacement)
	return args.Error(0)
}

func (m *MockSplitRepository) HasLedgerReferences(ctx context.Context, configID string) (bool, error) {
	args := m.Called(ctx, configID)
	return args.Bool(0), args.Error(1)
}

// MockRevenueRepository is a mock type for the RevenueRepositoryFacade interface
type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) SaveRecordWithEntries(ctx context.Context, record domain.RevenueRecord, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, record, entries)
	return args.Error(0)
}

func (m *MockRevenueRepository) FindRecordBySource(ctx context.Context, sourcePlatform, sourceRecordID string) (*domain.RevenueRecord, error) {
	args := m.Called(ctx, sourcePlatform, sourceRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueRecord), args.Error(1)
}

func (m *MockRevenueRepository) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindWalletByID(ctx context.Context, accountID string) (*domain.WalletAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}

func (m *MockLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SaveWallet(ctx context.Context, wallet domain.WalletAccount) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (decimal.Decimal, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPayoutRepository is a mock type for the PayoutRepositoryFacade interface
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) SavePayoutRequest(ctx context.Context, req domain.PayoutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPayoutRepository) FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRepository) ListPayoutsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.PayoutRequest, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.PayoutRequest), token, args.Error(2)
}

func (m *MockPayoutRepository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PayoutRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRepository) ApproveWithDebit(ctx context.Context, requestID string, debit domain.LedgerEntry, approverID string, now time.Time) (*domain.PayoutRequest, decimal.Decimal, error) {
	args := m.Called(ctx, requestID, debit, approverID, now)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.PayoutRequest), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockPayoutRepository) MarkCompleted(ctx context.Context, requestID string, providerRef *string, attempts int, now time.Time) error {
	args := m.Called(ctx, requestID, providerRef, attempts, now)
	return args.Error(0)
}

func (m *MockPayoutRepository) MarkFailedWithRefund(ctx context.Context, requestID string, refund domain.LedgerEntry, failureReason string, attempts int, now time.Time) error {
	args := m.Called(ctx, requestID, refund, failureReason, attempts, now)
	return args.Error(0)
}

func (m *MockPayoutRepository) MarkCancelled(ctx context.Context, requestID string, actorID string, now time.Time) error {
	args := m.Called(ctx, requestID, actorID, now)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAuditRepository is a mock type for the AuditRepositoryFacade interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) ListAuditByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, event ports.Event) {
	m.Called(ctx, event)
}

// MockPaymentRail is a mock type for the PaymentRail interface
type MockPaymentRail struct {
	mock.Mock
}

func (m *MockPaymentRail) SubmitPayout(ctx context.Context, instruction ports.PayoutInstruction) (*ports.PayoutOutcome, error) {
	args := m.Called(ctx, instruction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.PayoutOutcome), args.Error(1)
}

// MockWalletSvc is a mock type for the WalletSvcFacade interface
type MockWalletSvc struct {
	mock.Mock
}

func (m *MockWalletSvc) CreateWalletForUser(ctx context.Context, user *domain.User) (*domain.WalletAccount, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

func (m *MockWalletSvc) Balance(ctx context.Context, accountID string, principal domain.Principal) (*domain.WalletAccount, error) {
	args := m.Called(ctx, accountID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

func (m *MockWalletSvc) ListEntries(ctx context.Context, accountID string, principal domain.Principal, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, principal, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockWalletSvc) ApplyAdjustment(ctx context.Context, accountID string, req dto.ApplyEntryRequest, principal domain.Principal) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, accountID, req, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

func (m *MockWalletSvc) Reverse(ctx context.Context, entryID string, principal domain.Principal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockWalletSvc) DebitSubscription(ctx context.Context, accountID string, amount decimal.Decimal, referenceID string, principal domain.Principal) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, accountID, amount, referenceID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

func (m *MockWalletSvc) ReconcileBalance(ctx context.Context, accountID string, principal domain.Principal) (*dto.ReconciliationResponse, error) {
	args := m.Called(ctx, accountID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationResponse), args.Error(1)
}
