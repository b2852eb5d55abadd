package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL)
type UserStore interface {
	// Save creates or updates a user
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)
}

// EntitlementProvider resolves a user's billing state
type EntitlementProvider interface {
	Entitlement(ctx context.Context, userID string) (domain.Entitlement, error)
}
