package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

func newAuthFixture() (driving.AuthService, *mocks.MockUserStore, *mocks.MockAuthAdapter) {
	users := mocks.NewMockUserStore()
	adapter := mocks.NewMockAuthAdapter()
	return NewAuthService(users, users, adapter, NewQuotaEnforcer(domain.DefaultPlans())), users, adapter
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc, _, adapter := newAuthFixture()
	token, err := adapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		Email:     "a@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	auth, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", auth.UserID)
	assert.Equal(t, "a@example.com", auth.Email)
}

func TestAuthService_ValidateToken_Errors(t *testing.T) {
	svc, _, adapter := newAuthFixture()

	_, err := svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateToken(context.Background(), "%%%")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, _ := adapter.GenerateToken(&domain.TokenClaims{UserID: "u", ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	_, err = svc.ValidateToken(context.Background(), expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	anonymous, _ := adapter.GenerateToken(&domain.TokenClaims{Email: "a@example.com"})
	_, err = svc.ValidateToken(context.Background(), anonymous)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestAuthService_SyncUser_CreatesOnce(t *testing.T) {
	svc, users, _ := newAuthFixture()
	auth := &domain.AuthContext{UserID: "user-1", Email: "a@example.com"}

	first, err := svc.SyncUser(context.Background(), auth)
	require.NoError(t, err)
	second, err := svc.SyncUser(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	stored, err := users.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", stored.Email)
}

func TestAuthService_SyncUser_RequiresIdentity(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.SyncUser(context.Background(), &domain.AuthContext{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Plan(t *testing.T) {
	svc, users, _ := newAuthFixture()
	_ = users.Save(context.Background(), &domain.User{ID: "user-1"})

	plan, err := svc.Plan(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, plan.IsSubscribed)
	assert.Equal(t, 5, plan.Plan.PagesPerPDF)

	users.Subscribe("user-1")
	plan, err = svc.Plan(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, plan.IsSubscribed)
	assert.Equal(t, 25, plan.Plan.PagesPerPDF)
}
