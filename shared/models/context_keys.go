package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the private type of context keys set by this module.
type contextKey string

const (
	// UserContextKey holds the authenticated visitor's uuid.UUID.
	UserContextKey contextKey = "userID"
	// TokenUUIDContextKey holds the jti of the session token.
	TokenUUIDContextKey contextKey = "tokenUUID"
)

// GetUserIDFromContext extracts the visitor id placed by the auth middleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	return userID, ok
}
