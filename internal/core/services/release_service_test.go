package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/core/services"
	"github.com/mscandco/distribution_backend/internal/dto"
)

type ReleaseServiceTestSuite struct {
	suite.Suite
	mockReleaseRepo *MockReleaseRepository
	mockCRRepo      *MockChangeRequestRepository
	mockSplitRepo   *MockSplitRepository
	mockAuditRepo   *MockAuditRepository
	mockNotifier    *MockNotifier
	service         portssvc.ReleaseSvcFacade

	artistID string
	artist   domain.Principal
	partner  domain.Principal
}

func (suite *ReleaseServiceTestSuite) SetupTest() {
	suite.mockReleaseRepo = new(MockReleaseRepository)
	suite.mockCRRepo = new(MockChangeRequestRepository)
	suite.mockSplitRepo = new(MockSplitRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewReleaseService(suite.mockReleaseRepo, suite.mockCRRepo, suite.mockSplitRepo, suite.mockAuditRepo, suite.mockNotifier)

	suite.artistID = uuid.NewString()
	suite.artist = domain.Principal{UserID: suite.artistID, Role: domain.RoleArtist}
	suite.partner = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleDistributionPartner}
}

func (suite *ReleaseServiceTestSuite) release(status domain.ReleaseStatus) *domain.Release {
	return &domain.Release{
		ReleaseID:   uuid.NewString(),
		ArtistID:    suite.artistID,
		Title:       "Midnight Sessions",
		ReleaseType: "ep",
		Status:      status,
		Version:     3,
	}
}

func (suite *ReleaseServiceTestSuite) TestCreateRelease_ArtistOwnsIt() {
	ctx := context.Background()
	suite.mockReleaseRepo.On("SaveRelease", ctx, mock.MatchedBy(func(r domain.Release) bool {
		return r.ArtistID == suite.artistID && r.Status == domain.StatusDraft && r.Version == 1
	})).Return(nil).Once()

	release, err := suite.service.CreateRelease(ctx, dto.CreateReleaseRequest{
		Title:       "Midnight Sessions",
		ReleaseType: "ep",
	}, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusDraft, release.Status)
	suite.mockReleaseRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestCreateRelease_LabelAdminNeedsArtist() {
	labelAdmin := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleLabelAdmin}

	_, err := suite.service.CreateRelease(context.Background(), dto.CreateReleaseRequest{
		Title:       "Compilation Vol. 1",
		ReleaseType: "album",
	}, labelAdmin)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *ReleaseServiceTestSuite) TestCreateRelease_PartnerForbidden() {
	_, err := suite.service.CreateRelease(context.Background(), dto.CreateReleaseRequest{
		Title:       "Not Mine",
		ReleaseType: "single",
	}, suite.partner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
	suite.mockReleaseRepo.AssertNotCalled(suite.T(), "SaveRelease", mock.Anything, mock.Anything)
}

func (suite *ReleaseServiceTestSuite) TestTransition_DraftToSubmittedByOwner() {
	ctx := context.Background()
	release := suite.release(domain.StatusDraft)
	updated := *release
	updated.Status = domain.StatusSubmitted
	updated.Version = release.Version + 1

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockReleaseRepo.On("TransitionStatus", ctx, release.ReleaseID, domain.StatusSubmitted, (*domain.ReleaseStatus)(nil), release.Version, mock.Anything).Return(&updated, nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.Anything).Return().Once()

	got, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusSubmitted, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.StatusSubmitted, got.Status)
	suite.mockReleaseRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestTransition_SkippingStateFailsClosed() {
	ctx := context.Background()
	release := suite.release(domain.StatusDraft)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	_, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusInReview, suite.partner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidTransition)
	suite.mockReleaseRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReleaseServiceTestSuite) TestTransition_ArtistCannotPushLive() {
	ctx := context.Background()
	release := suite.release(domain.StatusCompleted)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	_, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusLive, suite.artist)

	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *ReleaseServiceTestSuite) TestTransition_LiveRequiresSplitConfiguration() {
	ctx := context.Background()
	release := suite.release(domain.StatusCompleted)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockSplitRepo.On("FindActiveForRelease", ctx, release.ReleaseID, (*string)(nil)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusLive, suite.partner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrMissingConfiguration)
}

func (suite *ReleaseServiceTestSuite) TestTransition_ConflictSurfacesToCaller() {
	ctx := context.Background()
	release := suite.release(domain.StatusSubmitted)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockReleaseRepo.On("TransitionStatus", ctx, release.ReleaseID, domain.StatusInReview, (*domain.ReleaseStatus)(nil), release.Version, mock.Anything).
		Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusInReview, suite.partner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *ReleaseServiceTestSuite) TestTransition_ChangeRequestedRecordsPriorStatus() {
	ctx := context.Background()
	release := suite.release(domain.StatusInReview)
	prior := domain.StatusInReview
	updated := *release
	updated.Status = domain.StatusChangeRequested
	updated.PriorStatus = &prior

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockReleaseRepo.On("TransitionStatus", ctx, release.ReleaseID, domain.StatusChangeRequested, &prior, release.Version, mock.Anything).Return(&updated, nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.Anything).Return().Once()

	got, err := suite.service.Transition(ctx, release.ReleaseID, domain.StatusChangeRequested, suite.partner)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), &prior, got.PriorStatus)
	suite.mockReleaseRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestUpdateMetadata_LockedOutsideDraft() {
	ctx := context.Background()
	release := suite.release(domain.StatusSubmitted)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	newTitle := "Renamed"
	_, err := suite.service.UpdateReleaseMetadata(ctx, release.ReleaseID, dto.UpdateReleaseRequest{Title: &newTitle}, suite.artist)

	assert.ErrorIs(suite.T(), err, apperrors.ErrEditLocked)
	suite.mockReleaseRepo.AssertNotCalled(suite.T(), "UpdateReleaseMetadata", mock.Anything, mock.Anything)
}

func (suite *ReleaseServiceTestSuite) TestUpdateMetadata_DraftByOwner() {
	ctx := context.Background()
	release := suite.release(domain.StatusDraft)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockReleaseRepo.On("UpdateReleaseMetadata", ctx, mock.MatchedBy(func(r domain.Release) bool {
		return r.Title == "Renamed"
	})).Return(nil).Once()

	newTitle := "Renamed"
	got, err := suite.service.UpdateReleaseMetadata(ctx, release.ReleaseID, dto.UpdateReleaseRequest{Title: &newTitle}, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", got.Title)
	suite.mockReleaseRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestSubmitChangeRequest_LiveReleaseByOwner() {
	ctx := context.Background()
	release := suite.release(domain.StatusLive)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockCRRepo.On("SaveChangeRequest", ctx, mock.MatchedBy(func(cr domain.ChangeRequest) bool {
		return cr.Field == "title" && cr.CurrentValue == "Midnight Sessions" && cr.Status == domain.ChangeRequestPending
	})).Return(nil).Once()

	cr, err := suite.service.SubmitChangeRequest(ctx, release.ReleaseID, dto.CreateChangeRequestRequest{
		Field:          "title",
		RequestedValue: "Midnight Sessions (Deluxe)",
		Reason:         "deluxe reissue",
	}, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.ChangeRequestPending, cr.Status)
	suite.mockCRRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestSubmitChangeRequest_DraftIsEditable() {
	ctx := context.Background()
	release := suite.release(domain.StatusDraft)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	_, err := suite.service.SubmitChangeRequest(ctx, release.ReleaseID, dto.CreateChangeRequestRequest{
		Field:          "title",
		RequestedValue: "New",
		Reason:         "typo",
	}, suite.artist)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *ReleaseServiceTestSuite) TestSubmitChangeRequest_UnknownField() {
	ctx := context.Background()
	release := suite.release(domain.StatusLive)

	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	_, err := suite.service.SubmitChangeRequest(ctx, release.ReleaseID, dto.CreateChangeRequestRequest{
		Field:          "status",
		RequestedValue: "live",
		Reason:         "nope",
	}, suite.artist)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *ReleaseServiceTestSuite) TestResolveChangeRequest_ApproveAppliesField() {
	ctx := context.Background()
	cr := &domain.ChangeRequest{
		RequestID:      uuid.NewString(),
		ReleaseID:      uuid.NewString(),
		Field:          "title",
		CurrentValue:   "Old",
		RequestedValue: "New",
		Status:         domain.ChangeRequestPending,
	}

	suite.mockCRRepo.On("FindChangeRequestByID", ctx, cr.RequestID).Return(cr, nil).Once()
	suite.mockCRRepo.On("ApplyChangeRequest", ctx, mock.MatchedBy(func(c domain.ChangeRequest) bool {
		return c.Status == domain.ChangeRequestApproved && c.ResolvedBy != nil
	}), mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.Anything).Return().Once()

	got, err := suite.service.ResolveChangeRequest(ctx, cr.RequestID, dto.DecisionApprove, suite.partner)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.ChangeRequestApproved, got.Status)
	suite.mockCRRepo.AssertExpectations(suite.T())
}

func (suite *ReleaseServiceTestSuite) TestResolveChangeRequest_RejectLeavesReleaseAlone() {
	ctx := context.Background()
	cr := &domain.ChangeRequest{
		RequestID: uuid.NewString(),
		ReleaseID: uuid.NewString(),
		Field:     "genre",
		Status:    domain.ChangeRequestPending,
	}

	suite.mockCRRepo.On("FindChangeRequestByID", ctx, cr.RequestID).Return(cr, nil).Once()
	suite.mockCRRepo.On("RejectChangeRequest", ctx, mock.MatchedBy(func(c domain.ChangeRequest) bool {
		return c.Status == domain.ChangeRequestRejected
	}), mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("Publish", ctx, mock.Anything).Return().Once()

	_, err := suite.service.ResolveChangeRequest(ctx, cr.RequestID, dto.DecisionReject, suite.partner)

	assert.NoError(suite.T(), err)
	suite.mockCRRepo.AssertNotCalled(suite.T(), "ApplyChangeRequest", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReleaseServiceTestSuite) TestResolveChangeRequest_ArtistForbidden() {
	_, err := suite.service.ResolveChangeRequest(context.Background(), uuid.NewString(), dto.DecisionApprove, suite.artist)
	assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
}

func (suite *ReleaseServiceTestSuite) TestResolveChangeRequest_AlreadyResolved() {
	ctx := context.Background()
	cr := &domain.ChangeRequest{
		RequestID: uuid.NewString(),
		Status:    domain.ChangeRequestRejected,
	}

	suite.mockCRRepo.On("FindChangeRequestByID", ctx, cr.RequestID).Return(cr, nil).Once()

	_, err := suite.service.ResolveChangeRequest(ctx, cr.RequestID, dto.DecisionApprove, suite.partner)

	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

func (suite *ReleaseServiceTestSuite) TestGetRelease_NotFoundPassesThrough() {
	ctx := context.Background()
	releaseID := uuid.NewString()
	suite.mockReleaseRepo.On("FindReleaseByID", ctx, releaseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetRelease(ctx, releaseID, suite.artist)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *ReleaseServiceTestSuite) TestAuditTrail_OwnerSeesTransitions() {
	ctx := context.Background()
	release := suite.release(domain.StatusLive)
	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()
	suite.mockAuditRepo.On("ListAuditByEntity", ctx, "release", release.ReleaseID).
		Return([]domain.AuditLogEntry{
			{Action: "transition", Detail: "draft -> submitted"},
			{Action: "transition", Detail: "completed -> live"},
		}, nil).Once()

	entries, err := suite.service.AuditTrail(ctx, release.ReleaseID, suite.artist)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), "draft -> submitted", entries[0].Detail)
}

func (suite *ReleaseServiceTestSuite) TestAuditTrail_StrangerForbidden() {
	ctx := context.Background()
	release := suite.release(domain.StatusLive)
	suite.mockReleaseRepo.On("FindReleaseByID", ctx, release.ReleaseID).Return(release, nil).Once()

	otherArtist := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleArtist}
	_, err := suite.service.AuditTrail(ctx, release.ReleaseID, otherArtist)

	assert.True(suite.T(), errors.Is(err, apperrors.ErrForbidden))
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "ListAuditByEntity", mock.Anything, mock.Anything, mock.Anything)
}

func TestReleaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReleaseServiceTestSuite))
}
