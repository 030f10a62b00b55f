package service_test

import (
	"context"
	"testing"
	"time"

	"story-wall/internal/mocks"
	"story-wall/internal/service"
	"story-wall/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func TestVisitor_StartAndVerify(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	tokens := new(mocks.MockTokenRepository)
	svc := service.NewVisitorService(users, tokens, service.TokenConfig{Secret: testSecret, TTL: time.Hour}, zap.NewNop())

	user := &models.User{ID: uuid.New(), Email: "a@example.com"}
	users.On("GetOrCreateByEmail", ctx, "a@example.com").Return(user, nil).Once()
	var stored *models.TokenDetails
	tokens.On("SetToken", ctx, mock.AnythingOfType("*models.TokenDetails")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.TokenDetails)
	}).Return(nil).Once()

	got, td, err := svc.StartVisit(ctx, " a@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user, got)
	require.Same(t, stored, td)
	assert.NotEmpty(t, td.Token)
	assert.NotEmpty(t, td.TokenUUID)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), td.ExpiresAt, 5)

	tokens.On("GetUserIDByTokenUUID", ctx, td.TokenUUID).Return(user.ID, nil).Once()
	claims, err := svc.VerifyToken(ctx, td.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, td.TokenUUID, claims.ID)

	tokens.On("GetUserIDByTokenUUID", ctx, td.TokenUUID).Return(uuid.Nil, models.ErrTokenNotFound).Once()
	_, err = svc.VerifyToken(ctx, td.Token)
	assert.ErrorIs(t, err, models.ErrTokenInvalid, "revoked token")

	tokens.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestVisitor_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	tokens := new(mocks.MockTokenRepository)
	svc := service.NewVisitorService(new(mocks.MockUserRepository), tokens, service.TokenConfig{Secret: testSecret}, zap.NewNop())

	sign := func(secret string, expires time.Time) string {
		claims := &models.Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
		}}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	_, err := svc.VerifyToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, models.ErrTokenMalformed)
	_, err = svc.VerifyToken(ctx, sign(testSecret, time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, err, models.ErrTokenExpired)
	_, err = svc.VerifyToken(ctx, sign("other-secret", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	// A stored jti that belongs to another user is rejected.
	tokens.On("GetUserIDByTokenUUID", ctx, mock.Anything).Return(uuid.New(), nil).Once()
	_, err = svc.VerifyToken(ctx, sign(testSecret, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestVisitor_StartVisitValidation(t *testing.T) {
	svc := service.NewVisitorService(new(mocks.MockUserRepository), new(mocks.MockTokenRepository), service.TokenConfig{Secret: testSecret}, zap.NewNop())
	_, _, err := svc.StartVisit(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestVisitor_EndVisit(t *testing.T) {
	ctx := context.Background()
	tokens := new(mocks.MockTokenRepository)
	svc := service.NewVisitorService(new(mocks.MockUserRepository), tokens, service.TokenConfig{Secret: testSecret}, zap.NewNop())

	tokens.On("DeleteToken", ctx, "jti-1").Return(int64(1), nil).Once()
	tokens.On("DeleteToken", ctx, "jti-2").Return(int64(0), nil).Once()
	assert.NoError(t, svc.EndVisit(ctx, "jti-1"))
	assert.NoError(t, svc.EndVisit(ctx, "jti-2"))
	tokens.AssertExpectations(t)
}
