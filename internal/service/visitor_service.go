package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"story-wall/shared/interfaces"
	"story-wall/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTokenTTL = 24 * time.Hour

type visitorServiceImpl struct {
	users  interfaces.UserRepository
	tokens interfaces.TokenRepository
	cfg    TokenConfig
	logger *zap.Logger
}

// NewVisitorService creates a VisitorService issuing HS256 tokens.
func NewVisitorService(users interfaces.UserRepository, tokens interfaces.TokenRepository, cfg TokenConfig, logger *zap.Logger) VisitorService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "story-wall"
	}
	return &visitorServiceImpl{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		logger: logger.Named("VisitorService"),
	}
}

func (s *visitorServiceImpl) StartVisit(ctx context.Context, email string) (*models.User, *models.TokenDetails, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", models.ErrInvalidInput)
	}
	user, err := s.users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("get or create visitor: %w", err)
	}
	td, err := s.createToken(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.tokens.SetToken(ctx, td); err != nil {
		s.logger.Error("Failed to store session token", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, nil, fmt.Errorf("store session token: %w", err)
	}
	s.logger.Info("Visitor session started", zap.String("userID", user.ID.String()))
	return user, td, nil
}

func (s *visitorServiceImpl) createToken(user *models.User) (*models.TokenDetails, error) {
	now := time.Now()
	td := &models.TokenDetails{
		TokenUUID: uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.TTL).Unix(),
	}
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.TokenUUID,
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.ExpiresAt, 0)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	td.Token = signed
	return td, nil
}

func (s *visitorServiceImpl) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, models.ErrTokenMalformed
		}
		s.logger.Debug("Session token rejected", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}
	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, models.ErrTokenInvalid
	}

	storedUserID, err := s.tokens.GetUserIDByTokenUUID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Session token revoked or unknown", zap.String("jti", claims.ID))
			return nil, models.ErrTokenInvalid
		}
		return nil, fmt.Errorf("check session token: %w", err)
	}
	if storedUserID != claims.UserID {
		s.logger.Warn("Session token user mismatch", zap.String("jti", claims.ID))
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

func (s *visitorServiceImpl) EndVisit(ctx context.Context, tokenUUID string) error {
	deleted, err := s.tokens.DeleteToken(ctx, tokenUUID)
	if err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	if deleted == 0 {
		s.logger.Debug("Session token already gone", zap.String("jti", tokenUUID))
	}
	return nil
}
