package models

import "github.com/google/uuid"

// TokenDetails holds the issued session token and its jti.
// TokenUUID is stored in Redis and never exposed.
type TokenDetails struct {
	Token     string    `json:"token"`
	TokenUUID string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt int64     `json:"expires_at"`
}
