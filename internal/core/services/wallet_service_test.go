package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/core/services"
	"github.com/mscandco/distribution_backend/internal/dto"
)

type WalletServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.WalletSvcFacade

	owner domain.Principal
	admin domain.Principal
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewWalletService(suite.mockLedgerRepo, "USD")

	suite.owner = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}
	suite.admin = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleCompanyAdmin}
}

func (suite *WalletServiceTestSuite) wallet(balance string) *domain.WalletAccount {
	return &domain.WalletAccount{
		AccountID:    suite.owner.UserID,
		OwnerUserID:  suite.owner.UserID,
		CurrencyCode: "USD",
		Balance:      decimal.RequireFromString(balance),
	}
}

func (suite *WalletServiceTestSuite) TestCreateWalletForUser() {
	ctx := context.Background()
	user := &domain.User{UserID: suite.owner.UserID, Role: domain.RoleArtist}

	suite.mockLedgerRepo.On("SaveWallet", ctx, mock.MatchedBy(func(w domain.WalletAccount) bool {
		return w.AccountID == user.UserID && w.Balance.IsZero() && w.CurrencyCode == "USD"
	})).Return(nil).Once()

	wallet, err := suite.service.CreateWalletForUser(ctx, user)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.UserID, wallet.AccountID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestBalance_OwnerReadsOwn() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("120.50"), nil).Once()

	wallet, err := suite.service.Balance(ctx, suite.owner.UserID, suite.owner)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), wallet.Balance.Equal(decimal.RequireFromString("120.50")))
}

func (suite *WalletServiceTestSuite) TestBalance_StrangerForbidden() {
	ctx := context.Background()
	stranger := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("120.50"), nil).Once()

	_, err := suite.service.Balance(ctx, suite.owner.UserID, stranger)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *WalletServiceTestSuite) TestBalance_AdminReadsAny() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("120.50"), nil).Once()

	_, err := suite.service.Balance(ctx, suite.owner.UserID, suite.admin)

	assert.NoError(suite.T(), err)
}

func (suite *WalletServiceTestSuite) TestReconcileBalance_ProjectionMatchesEntries() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("120.50"), nil).Once()
	suite.mockLedgerRepo.On("SumEntriesByAccount", ctx, suite.owner.UserID).
		Return(decimal.RequireFromString("120.50"), nil).Once()

	resp, err := suite.service.ReconcileBalance(ctx, suite.owner.UserID, suite.admin)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), resp.Consistent)
	assert.True(suite.T(), resp.EntrySum.Equal(resp.Balance))
}

func (suite *WalletServiceTestSuite) TestReconcileBalance_DriftDetected() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("120.50"), nil).Once()
	suite.mockLedgerRepo.On("SumEntriesByAccount", ctx, suite.owner.UserID).
		Return(decimal.RequireFromString("119.50"), nil).Once()

	resp, err := suite.service.ReconcileBalance(ctx, suite.owner.UserID, suite.admin)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), resp.Consistent)
	assert.True(suite.T(), resp.EntrySum.Equal(decimal.RequireFromString("119.50")))
}

func (suite *WalletServiceTestSuite) TestReconcileBalance_OwnerForbidden() {
	_, err := suite.service.ReconcileBalance(context.Background(), suite.owner.UserID, suite.owner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SumEntriesByAccount", mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestApplyAdjustment_AdminOnly() {
	_, err := suite.service.ApplyAdjustment(context.Background(), suite.owner.UserID, dto.ApplyEntryRequest{
		Amount:      decimal.RequireFromString("10.00"),
		ReferenceID: "manual-fix-1",
	}, suite.owner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *WalletServiceTestSuite) TestApplyAdjustment_AppendsEntry() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("100.00"), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Reason == domain.ReasonAdjustment && e.Amount.Equal(decimal.RequireFromString("-15.25"))
	})).Return(decimal.RequireFromString("84.75"), nil).Once()

	resp, err := suite.service.ApplyAdjustment(ctx, suite.owner.UserID, dto.ApplyEntryRequest{
		Amount:      decimal.RequireFromString("-15.25"),
		ReferenceID: "manual-fix-1",
	}, suite.admin)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), resp.Balance.Equal(decimal.RequireFromString("84.75")))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestApplyAdjustment_ZeroAmountRejected() {
	_, err := suite.service.ApplyAdjustment(context.Background(), suite.owner.UserID, dto.ApplyEntryRequest{
		Amount:      decimal.Zero,
		ReferenceID: "manual-fix-1",
	}, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *WalletServiceTestSuite) TestApplyAdjustment_InsufficientFundsFromRepo() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("10.00"), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.Anything).Return(decimal.Zero, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.ApplyAdjustment(ctx, suite.owner.UserID, dto.ApplyEntryRequest{
		Amount:      decimal.RequireFromString("-50.00"),
		ReferenceID: "manual-fix-2",
	}, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientFunds)
}

func (suite *WalletServiceTestSuite) TestReverse_NegatesOriginal() {
	ctx := context.Background()
	original := &domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		AccountID:    suite.owner.UserID,
		Amount:       decimal.RequireFromString("63.17"),
		CurrencyCode: "USD",
		Reason:       domain.ReasonRevenueShare,
		ReferenceID:  uuid.NewString(),
	}

	suite.mockLedgerRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount.Equal(decimal.RequireFromString("-63.17")) &&
			e.Reason == domain.ReasonReversal &&
			e.OriginalEntryID != nil && *e.OriginalEntryID == original.EntryID
	})).Return(decimal.Zero, nil).Once()

	reversal, err := suite.service.Reverse(ctx, original.EntryID, suite.admin)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.ReasonReversal, reversal.Reason)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestReverse_ReversalCannotBeReversed() {
	ctx := context.Background()
	original := &domain.LedgerEntry{
		EntryID: uuid.NewString(),
		Reason:  domain.ReasonReversal,
	}

	suite.mockLedgerRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()

	_, err := suite.service.Reverse(ctx, original.EntryID, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *WalletServiceTestSuite) TestDebitSubscription_OwnerDebitsOwnWallet() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindWalletByID", ctx, suite.owner.UserID).Return(suite.wallet("100.00"), nil).Once()
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Reason == domain.ReasonSubscriptionDebit && e.Amount.Equal(decimal.RequireFromString("-9.99"))
	})).Return(decimal.RequireFromString("90.01"), nil).Once()

	resp, err := suite.service.DebitSubscription(ctx, suite.owner.UserID, decimal.RequireFromString("9.99"), "sub-2026-08", suite.owner)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), resp.Balance.Equal(decimal.RequireFromString("90.01")))
}

func (suite *WalletServiceTestSuite) TestDebitSubscription_PositiveAmountRequired() {
	_, err := suite.service.DebitSubscription(context.Background(), suite.owner.UserID, decimal.RequireFromString("-5.00"), "sub-2026-08", suite.owner)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
