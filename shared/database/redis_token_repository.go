package database

import (
	"context"
	"errors"
	"fmt"
	"story-wall/shared/interfaces"
	"story-wall/shared/models"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func sessionKey(tokenUUID string) string {
	return fmt.Sprintf("session_uuid:%s", tokenUUID)
}

// SetToken stores session_uuid:{jti} -> userID with the token's remaining lifetime as TTL.
func (r *redisTokenRepository) SetToken(ctx context.Context, td *models.TokenDetails) error {
	ttl := time.Until(time.Unix(td.ExpiresAt, 0))
	if ttl <= 0 {
		return fmt.Errorf("token %s already expired: %w", td.TokenUUID, models.ErrTokenExpired)
	}
	key := sessionKey(td.TokenUUID)
	r.logger.Debug("Setting session token in Redis",
		zap.String("userID", td.UserID.String()),
		zap.String("tokenUUID", td.TokenUUID),
		zap.Duration("ttl", ttl),
	)
	if err := r.client.Set(ctx, key, td.UserID.String(), ttl).Err(); err != nil {
		r.logger.Error("Failed to set token in redis", zap.Error(err), zap.String("userID", td.UserID.String()))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	return nil
}

// GetUserIDByTokenUUID retrieves the UserID associated with a token UUID.
func (r *redisTokenRepository) GetUserIDByTokenUUID(ctx context.Context, tokenUUID string) (uuid.UUID, error) {
	key := sessionKey(tokenUUID)
	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Session token not found in Redis", zap.String("tokenUUID", tokenUUID))
			return uuid.Nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("key", key))
		return uuid.Nil, fmt.Errorf("failed to get token from redis: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		r.logger.Error("Failed to parse userID from redis data",
			zap.Error(err),
			zap.String("tokenUUID", tokenUUID),
			zap.String("value", userIDStr),
		)
		return uuid.Nil, fmt.Errorf("corrupted userID data in redis for token %s: %w", tokenUUID, err)
	}
	return userID, nil
}

// DeleteToken removes the session key. Deleting an unknown key is not an error.
func (r *redisTokenRepository) DeleteToken(ctx context.Context, tokenUUID string) (int64, error) {
	deleted, err := r.client.Del(ctx, sessionKey(tokenUUID)).Result()
	if err != nil {
		r.logger.Error("Failed to delete token from redis", zap.Error(err), zap.String("tokenUUID", tokenUUID))
		return 0, fmt.Errorf("failed to delete token %s: %w", tokenUUID, err)
	}
	r.logger.Info("Session token revoked", zap.String("tokenUUID", tokenUUID), zap.Int64("deletedCount", deleted))
	return deleted, nil
}
