package driving

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// AuthService resolves identity tokens and mirrors identities locally
type AuthService interface {
	// ValidateToken validates an identity token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// SyncUser creates the local user record on first sight
	SyncUser(ctx context.Context, auth *domain.AuthContext) (*domain.User, error)

	// Plan resolves the caller's subscription plan
	Plan(ctx context.Context, userID string) (*domain.SubscriptionPlan, error)
}
