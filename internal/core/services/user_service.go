package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mscandco/distribution_backend/internal/apperrors"
	"github.com/mscandco/distribution_backend/internal/core/domain"
	portsrepo "github.com/mscandco/distribution_backend/internal/core/ports/repositories"
	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
	"github.com/mscandco/distribution_backend/internal/utils"
	"github.com/mscandco/distribution_backend/pkg/config"
)

// userService manages platform users and issues access tokens.
type userService struct {
	userRepo  portsrepo.UserRepositoryFacade
	walletSvc portssvc.WalletSvcFacade
	cfg       *config.Config
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, walletSvc portssvc.WalletSvcFacade, cfg *config.Config) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, walletSvc: walletSvc, cfg: cfg}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	if req.Role == domain.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: role %s cannot be self-registered", apperrors.ErrValidation, req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, req.Email)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	// Every user gets a wallet; the account ID is the user ID.
	if _, err := s.walletSvc.CreateWalletForUser(ctx, &user); err != nil {
		logger.Error("failed to provision wallet for new user",
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to provision wallet for user %s: %w", user.UserID, err)
	}

	logger.Info("user registered", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("failed login attempt", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.JWTExpiryDuration),
		User:      dto.ToUserResponse(user),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}
