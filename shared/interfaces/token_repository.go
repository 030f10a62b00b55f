package interfaces

import (
	"context"
	"story-wall/shared/models"

	"github.com/google/uuid"
)

// TokenRepository stores the jti of issued session tokens (e.g., Redis).
type TokenRepository interface {
	// SetToken stores the token UUID mapped to the user with a TTL up to ExpiresAt.
	SetToken(ctx context.Context, td *models.TokenDetails) error

	// GetUserIDByTokenUUID returns models.ErrTokenNotFound if the token is unknown or expired.
	GetUserIDByTokenUUID(ctx context.Context, tokenUUID string) (uuid.UUID, error)

	// DeleteToken revokes a token. Returns the number of keys deleted.
	DeleteToken(ctx context.Context, tokenUUID string) (int64, error)
}
