package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/core/ports"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/core/services"
	"github.com/mscandco/distribution_backend/internal/dto"
)

type PayoutServiceTestSuite struct {
	suite.Suite
	mockPayoutRepo *MockPayoutRepository
	mockLedgerRepo *MockLedgerRepository
	mockRail       *MockPaymentRail
	mockNotifier   *MockNotifier
	service        portssvc.PayoutSvcFacade

	holder   domain.Principal
	approver domain.Principal
}

func (suite *PayoutServiceTestSuite) SetupTest() {
	suite.mockPayoutRepo = new(MockPayoutRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockRail = new(MockPaymentRail)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewPayoutService(
		suite.mockPayoutRepo,
		suite.mockLedgerRepo,
		suite.mockRail,
		suite.mockNotifier,
		decimal.RequireFromString("25.00"),
		3,
	)

	suite.holder = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}
	suite.approver = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleCompanyAdmin}
}

func (suite *PayoutServiceTestSuite) wallet(balance string) *domain.WalletAccount {
	return &domain.WalletAccount{
		AccountID:    suite.holder.UserID,
		OwnerUserID:  suite.holder.UserID,
		CurrencyCode: "USD",
		Balance:      decimal.RequireFromString(balance),
	}
}

func (suite *PayoutServiceTestSuite) processingPayout(amount string) *domain.PayoutRequest {
	debitID := uuid.NewString()
	return &domain.PayoutRequest{
		RequestID:    uuid.NewString(),
		AccountID:    suite.holder.UserID,
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		Method:       domain.MethodBankTransfer,
		Destination:  "iban:DE00123",
		Status:       domain.PayoutProcessing,
		DebitEntryID: &debitID,
		Attempts:     0,
	}
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_BelowThreshold() {
	_, err := suite.service.RequestPayout(context.Background(), dto.CreatePayoutRequest{
		Amount:      decimal.RequireFromString("10.00"),
		Method:      domain.MethodBankTransfer,
		Destination: "iban:DE00123",
	}, suite.holder)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "SavePayoutRequest", mock.Anything, mock.Anything)
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_ExceedsAvailable() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.holder.UserID).Return(suite.wallet("50.00"), nil).Once()

	_, err := suite.service.RequestPayout(ctx, dto.CreatePayoutRequest{
		Amount:      decimal.RequireFromString("100.00"),
		Method:      domain.MethodPaypal,
		Destination: "artist@example.com",
	}, suite.holder)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientFunds)
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_CreatesPending() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.holder.UserID).Return(suite.wallet("500.00"), nil).Once()
	suite.mockPayoutRepo.On("SavePayoutRequest", ctx, mock.MatchedBy(func(p domain.PayoutRequest) bool {
		return p.Status == domain.PayoutPending && p.AccountID == suite.holder.UserID
	})).Return(nil).Once()

	payout, err := suite.service.RequestPayout(ctx, dto.CreatePayoutRequest{
		Amount:      decimal.RequireFromString("100.00"),
		Method:      domain.MethodBankTransfer,
		Destination: "iban:DE00123",
	}, suite.holder)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayoutPending, payout.Status)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestApprove_RequiresCapability() {
	_, err := suite.service.Approve(context.Background(), uuid.NewString(), suite.holder)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *PayoutServiceTestSuite) TestApprove_WritesDebitInRepoTransaction() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	payout.Status = domain.PayoutPending
	payout.DebitEntryID = nil
	approved := *payout
	approved.Status = domain.PayoutProcessing

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("ApproveWithDebit", ctx, payout.RequestID, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount.Equal(decimal.RequireFromString("-100.00")) &&
			e.Reason == domain.ReasonPayout &&
			e.ReferenceID == payout.RequestID
	}), suite.approver.UserID, mock.Anything).Return(&approved, decimal.RequireFromString("400.00"), nil).Once()

	got, err := suite.service.Approve(ctx, payout.RequestID, suite.approver)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayoutProcessing, got.Status)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestApprove_InsufficientFundsAtRecheck() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	payout.Status = domain.PayoutPending
	payout.DebitEntryID = nil

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("ApproveWithDebit", ctx, payout.RequestID, mock.Anything, suite.approver.UserID, mock.Anything).
		Return(nil, decimal.Zero, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.Approve(ctx, payout.RequestID, suite.approver)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientFunds)
}

func (suite *PayoutServiceTestSuite) TestApprove_NotPending() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()

	_, err := suite.service.Approve(ctx, payout.RequestID, suite.approver)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *PayoutServiceTestSuite) TestSettle_Success() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	providerRef := "rail-tx-789"

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockRail.On("SubmitPayout", ctx, mock.MatchedBy(func(i ports.PayoutInstruction) bool {
		return i.RequestID == payout.RequestID && i.Amount.Equal(payout.Amount)
	})).Return(&ports.PayoutOutcome{ProviderRef: providerRef}, nil).Once()
	suite.mockPayoutRepo.On("MarkCompleted", ctx, payout.RequestID, &providerRef, 1, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.MatchedBy(func(e ports.Event) bool {
		return e.Type == ports.EventPayoutCompleted
	})).Return().Once()

	got, err := suite.service.Settle(ctx, payout.RequestID, suite.approver)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayoutCompleted, got.Status)
	assert.Equal(suite.T(), providerRef, *got.ProviderRef)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestSettle_RetriesTransientFailure() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	providerRef := "rail-tx-790"

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockRail.On("SubmitPayout", ctx, mock.Anything).
		Return(nil, apperrors.NewExternalPayoutError(true, "rail unavailable", nil)).Once()
	suite.mockRail.On("SubmitPayout", ctx, mock.Anything).
		Return(&ports.PayoutOutcome{ProviderRef: providerRef}, nil).Once()
	suite.mockPayoutRepo.On("MarkCompleted", ctx, payout.RequestID, &providerRef, 2, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.Anything).Return().Once()

	got, err := suite.service.Settle(ctx, payout.RequestID, suite.approver)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, got.Attempts)
	suite.mockRail.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestSettle_TerminalFailureRefundsWallet() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	debit := &domain.LedgerEntry{
		EntryID:      *payout.DebitEntryID,
		AccountID:    payout.AccountID,
		Amount:       payout.Amount.Neg(),
		CurrencyCode: "USD",
		Reason:       domain.ReasonPayout,
		ReferenceID:  payout.RequestID,
	}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockRail.On("SubmitPayout", ctx, mock.Anything).
		Return(nil, apperrors.NewExternalPayoutError(false, "destination account closed", nil)).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, *payout.DebitEntryID).Return(debit, nil).Once()
	suite.mockPayoutRepo.On("MarkFailedWithRefund", ctx, payout.RequestID, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount.Equal(payout.Amount) &&
			e.Reason == domain.ReasonReversal &&
			e.OriginalEntryID != nil && *e.OriginalEntryID == debit.EntryID
	}), mock.Anything, 1, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.MatchedBy(func(e ports.Event) bool {
		return e.Type == ports.EventPayoutFailed
	})).Return().Once()

	got, err := suite.service.Settle(ctx, payout.RequestID, suite.approver)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayoutFailed, got.Status)
	assert.NotNil(suite.T(), got.FailureReason)
	// Only one attempt: a terminal failure is never retried.
	suite.mockRail.AssertNumberOfCalls(suite.T(), "SubmitPayout", 1)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestSettle_TimeoutLeavesProcessing() {
	ctx, cancel := context.WithCancel(context.Background())
	payout := suite.processingPayout("100.00")

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockRail.On("SubmitPayout", ctx, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, apperrors.NewExternalPayoutError(true, "timed out", context.DeadlineExceeded)).Once()

	_, err := suite.service.Settle(ctx, payout.RequestID, suite.approver)

	// A timed-out call may still have succeeded on the provider side; no
	// failure is recorded and no refund is written.
	assert.Error(suite.T(), err)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "MarkFailedWithRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayoutServiceTestSuite) TestSettle_NotProcessing() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	payout.Status = domain.PayoutCompleted

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()

	_, err := suite.service.Settle(ctx, payout.RequestID, suite.approver)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *PayoutServiceTestSuite) TestCancel_PendingByRequester() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	payout.Status = domain.PayoutPending
	payout.DebitEntryID = nil

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()
	suite.mockPayoutRepo.On("MarkCancelled", ctx, payout.RequestID, suite.holder.UserID, mock.Anything).Return(nil).Once()

	got, err := suite.service.Cancel(ctx, payout.RequestID, suite.holder)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayoutCancelled, got.Status)
}

func (suite *PayoutServiceTestSuite) TestCancel_StrangerForbidden() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")
	payout.Status = domain.PayoutPending
	stranger := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()

	_, err := suite.service.Cancel(ctx, payout.RequestID, stranger)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *PayoutServiceTestSuite) TestCancel_ProcessingConflicts() {
	ctx := context.Background()
	payout := suite.processingPayout("100.00")

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, payout.RequestID).Return(payout, nil).Once()

	_, err := suite.service.Cancel(ctx, payout.RequestID, suite.holder)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *PayoutServiceTestSuite) TestListStuckPayouts_ApproverOnly() {
	ctx := context.Background()

	_, err := suite.service.ListStuckPayouts(ctx, time.Hour, suite.holder)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)

	stuck := []domain.PayoutRequest{*suite.processingPayout("75.00")}
	suite.mockPayoutRepo.On("ListProcessingOlderThan", ctx, mock.Anything).Return(stuck, nil).Once()

	got, err := suite.service.ListStuckPayouts(ctx, time.Hour, suite.approver)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 1)
}

func TestPayoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayoutServiceTestSuite))
}
