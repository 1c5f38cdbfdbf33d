package services

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
	"github.com/mscandco/distribution_backend/internal/dto"
)

// UserSvcFacade manages platform users and issues access tokens.
type UserSvcFacade interface {
	// Register creates a user with a hashed password and provisions their
	// wallet.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns a signed access token carrying
	// the user's role.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
