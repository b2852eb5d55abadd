package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	userStore    driven.UserStore
	entitlements driven.EntitlementProvider
	authAdapter  driven.AuthAdapter
	quota        *QuotaEnforcer
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore driven.UserStore,
	entitlements driven.EntitlementProvider,
	authAdapter driven.AuthAdapter,
	quota *QuotaEnforcer,
) driving.AuthService {
	return &authService{
		userStore:    userStore,
		entitlements: entitlements,
		authAdapter:  authAdapter,
		quota:        quota,
	}
}

// ValidateToken validates an identity token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if claims.ExpiresAt != 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}
	if claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.AuthContext{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// SyncUser creates the local user on first sight and returns it
func (s *authService) SyncUser(ctx context.Context, auth *domain.AuthContext) (*domain.User, error) {
	if auth == nil || auth.UserID == "" || auth.Email == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userStore.Get(ctx, auth.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	user = &domain.User{
		ID:        auth.UserID,
		Email:     auth.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Plan resolves the caller's entitlement against the plan table
func (s *authService) Plan(ctx context.Context, userID string) (*domain.SubscriptionPlan, error) {
	ent, err := s.entitlements.Entitlement(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.SubscriptionPlan{
		Entitlement: ent,
		Plan:        s.quota.Plan(ent),
	}, nil
}
