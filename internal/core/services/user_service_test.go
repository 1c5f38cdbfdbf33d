package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/core/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/utils"
	"github.com/mscandco/distribution_backend/pkg/config"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockWalletSvc *MockWalletSvc
	service       portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockWalletSvc = new(MockWalletSvc)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "distribution-backend",
	}
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockWalletSvc, cfg)
}

func (suite *UserServiceTestSuite) TestRegister_ProvisionsWallet() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Nia Okafor",
		Email:    "nia@example.com",
		Password: "correct horse battery",
		Role:     domain.RoleArtist,
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email && u.Role == domain.RoleArtist && u.PasswordHash != req.Password
	})).Return(nil).Once()
	suite.mockWalletSvc.On("CreateWalletForUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == req.Email
	})).Return(&domain.WalletAccount{}, nil).Once()

	user, err := suite.service.Register(ctx, req)

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), user.UserID)
	assert.True(suite.T(), utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockWalletSvc.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_RejectsSuperAdmin() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleSuperAdmin,
	}

	_, err := suite.service.Register(ctx, req)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Nia Okafor",
		Email:    "nia@example.com",
		Password: "correct horse battery",
		Role:     domain.RoleLabelAdmin,
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Register(ctx, req)

	assert.ErrorIs(suite.T(), err, apperrors.ErrDuplicate)
	suite.mockWalletSvc.AssertNotCalled(suite.T(), "CreateWalletForUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestLogin_IssuesToken() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse battery")
	assert.NoError(suite.T(), err)
	user := &domain.User{
		UserID:       "user-1",
		Name:         "Nia Okafor",
		Email:        "nia@example.com",
		Role:         domain.RoleArtist,
		PasswordHash: hash,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "correct horse battery"})

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.Token)
	assert.Equal(suite.T(), user.UserID, resp.User.UserID)
	assert.True(suite.T(), resp.ExpiresAt.After(time.Now()))
}

func (suite *UserServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse battery")
	assert.NoError(suite.T(), err)
	user := &domain.User{UserID: "user-1", Email: "nia@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err = suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "wrong"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestLogin_UnknownEmailIsUnauthorized() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
