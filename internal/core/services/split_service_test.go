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

type SplitServiceTestSuite struct {
	suite.Suite
	mockSplitRepo   *MockSplitRepository
	mockReleaseRepo *MockReleaseRepository
	service         portssvc.SplitSvcFacade

	admin  domain.Principal
	artist domain.Principal
}

func (suite *SplitServiceTestSuite) SetupTest() {
	suite.mockSplitRepo = new(MockSplitRepository)
	suite.mockReleaseRepo = new(MockReleaseRepository)
	suite.service = services.NewSplitService(suite.mockSplitRepo, suite.mockReleaseRepo)

	suite.admin = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleCompanyAdmin}
	suite.artist = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}
}

func (suite *SplitServiceTestSuite) validRequest(releaseID string) dto.CreateSplitConfigRequest {
	return dto.CreateSplitConfigRequest{
		ReleaseID:      &releaseID,
		PartnerFeeRate: decimal.RequireFromString("0.10"),
		ArtistPct:      decimal.RequireFromString("0.70"),
		LabelPct:       decimal.RequireFromString("0.20"),
		CompanyPct:     decimal.RequireFromString("0.10"),
	}
}

func (suite *SplitServiceTestSuite) TestCreateConfiguration_Success() {
	ctx := context.Background()
	releaseID := uuid.NewString()
	req := suite.validRequest(releaseID)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, releaseID).Return(&domain.Release{ReleaseID: releaseID}, nil).Once()
	suite.mockSplitRepo.On("SaveConfiguration", ctx, mock.MatchedBy(func(c domain.SplitConfiguration) bool {
		return c.Active && c.Version == 1 && c.ReleaseID != nil && *c.ReleaseID == releaseID
	})).Return(nil).Once()

	cfg, err := suite.service.CreateConfiguration(ctx, req, suite.admin)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.Active)
	suite.mockSplitRepo.AssertExpectations(suite.T())
}

func (suite *SplitServiceTestSuite) TestCreateConfiguration_PercentagesMustSumToOne() {
	req := suite.validRequest(uuid.NewString())
	req.CompanyPct = decimal.RequireFromString("0.11")

	_, err := suite.service.CreateConfiguration(context.Background(), req, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockSplitRepo.AssertNotCalled(suite.T(), "SaveConfiguration", mock.Anything, mock.Anything)
}

func (suite *SplitServiceTestSuite) TestCreateConfiguration_FeeRateOutOfRange() {
	req := suite.validRequest(uuid.NewString())
	req.PartnerFeeRate = decimal.NewFromInt(1)

	_, err := suite.service.CreateConfiguration(context.Background(), req, suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *SplitServiceTestSuite) TestCreateConfiguration_ArtistForbidden() {
	_, err := suite.service.CreateConfiguration(context.Background(), suite.validRequest(uuid.NewString()), suite.artist)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *SplitServiceTestSuite) TestSupersedeConfiguration_BumpsVersion() {
	ctx := context.Background()
	releaseID := uuid.NewString()
	old := &domain.SplitConfiguration{
		ConfigID:       uuid.NewString(),
		ReleaseID:      &releaseID,
		PartnerFeeRate: decimal.RequireFromString("0.10"),
		ArtistPct:      decimal.RequireFromString("0.70"),
		LabelPct:       decimal.RequireFromString("0.20"),
		CompanyPct:     decimal.RequireFromString("0.10"),
		Version:        2,
		Active:         true,
	}
	req := suite.validRequest(releaseID)
	req.ArtistPct = decimal.RequireFromString("0.75")
	req.LabelPct = decimal.RequireFromString("0.15")

	suite.mockSplitRepo.On("FindConfigurationByID", ctx, old.ConfigID).Return(old, nil).Once()
	suite.mockSplitRepo.On("HasLedgerReferences", ctx, old.ConfigID).Return(true, nil).Once()
	suite.mockSplitRepo.On("SupersedeConfiguration", ctx, old.ConfigID, mock.MatchedBy(func(c domain.SplitConfiguration) bool {
		return c.Version == 3 && c.Active && c.ArtistPct.Equal(decimal.RequireFromString("0.75"))
	})).Return(nil).Once()

	resp, err := suite.service.SupersedeConfiguration(ctx, old.ConfigID, req, suite.admin)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), resp.Config.Version)
	assert.NotEqual(suite.T(), old.ConfigID, resp.Config.ConfigID)
	assert.True(suite.T(), resp.PriorVersionReferenced)
	suite.mockSplitRepo.AssertExpectations(suite.T())
}

func (suite *SplitServiceTestSuite) TestSupersedeConfiguration_UnreferencedVersion() {
	ctx := context.Background()
	releaseID := uuid.NewString()
	old := &domain.SplitConfiguration{
		ConfigID:       uuid.NewString(),
		ReleaseID:      &releaseID,
		PartnerFeeRate: decimal.RequireFromString("0.10"),
		ArtistPct:      decimal.RequireFromString("0.70"),
		LabelPct:       decimal.RequireFromString("0.20"),
		CompanyPct:     decimal.RequireFromString("0.10"),
		Version:        1,
		Active:         true,
	}

	suite.mockSplitRepo.On("FindConfigurationByID", ctx, old.ConfigID).Return(old, nil).Once()
	suite.mockSplitRepo.On("HasLedgerReferences", ctx, old.ConfigID).Return(false, nil).Once()
	suite.mockSplitRepo.On("SupersedeConfiguration", ctx, old.ConfigID, mock.Anything).Return(nil).Once()

	resp, err := suite.service.SupersedeConfiguration(ctx, old.ConfigID, suite.validRequest(releaseID), suite.admin)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), resp.PriorVersionReferenced)
}

func (suite *SplitServiceTestSuite) TestSupersedeConfiguration_InactiveConflicts() {
	ctx := context.Background()
	old := &domain.SplitConfiguration{ConfigID: uuid.NewString(), Active: false}

	suite.mockSplitRepo.On("FindConfigurationByID", ctx, old.ConfigID).Return(old, nil).Once()

	_, err := suite.service.SupersedeConfiguration(ctx, old.ConfigID, suite.validRequest(uuid.NewString()), suite.admin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *SplitServiceTestSuite) TestGetActiveForRelease_ReleaseScopeWins() {
	ctx := context.Background()
	labelID := uuid.NewString()
	release := &domain.Release{ReleaseID: uuid.NewString(), ArtistID: suite.artist.UserID, LabelID: &labelID}
	cfg := &domain.SplitConfiguration{ConfigID: uuid.NewString(), ReleaseID: &release.ReleaseID, Active: true}

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockSplitRepo.On("FindActiveForRelease", ctx, release.ReleaseID, &labelID).Return(cfg, nil).Once()

	got, err := suite.service.GetActiveForRelease(ctx, release.ReleaseID, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cfg.ConfigID, got.ConfigID)
}

func (suite *SplitServiceTestSuite) TestGetActiveForRelease_MissingConfiguration() {
	ctx := context.Background()
	release := &domain.Release{ReleaseID: uuid.NewString(), ArtistID: suite.artist.UserID}

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockSplitRepo.On("FindActiveForRelease", ctx, release.ReleaseID, (*string)(nil)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetActiveForRelease(ctx, release.ReleaseID, suite.artist)

	assert.ErrorIs(suite.T(), err, apperrors.ErrMissingConfiguration)
}

func TestSplitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SplitServiceTestSuite))
}
