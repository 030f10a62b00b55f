package interfaces

import (
	"context"
	"story-wall/shared/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for visitor persistence.
type UserRepository interface {
	// GetOrCreateByEmail returns the existing user for the email or creates one.
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns models.ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
