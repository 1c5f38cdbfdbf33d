package repositories

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// UserRepositoryFacade defines persistence for platform users.
type UserRepositoryFacade interface {
	// SaveUser inserts a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
