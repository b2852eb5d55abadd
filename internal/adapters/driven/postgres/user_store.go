package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.UserStore           = (*UserStore)(nil)
	_ driven.EntitlementProvider = (*UserStore)(nil)
)

// UserStore implements driven.UserStore using PostgreSQL.
// Billing columns are written by the billing integration; this store only
// reads them to resolve entitlements.
type UserStore struct {
	db  *DB
	now func() time.Time
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

// Save creates a user or refreshes its email
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.CreatedAt, user.UpdatedAt)
	return err
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, stripe_customer_id, stripe_subscription_id, stripe_price_id,
		       stripe_current_period_end, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	var customerID, subscriptionID, priceID sql.NullString
	var periodEnd sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&customerID,
		&subscriptionID,
		&priceID,
		&periodEnd,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.StripeCustomerID = customerID.String
	user.StripeSubscriptionID = subscriptionID.String
	user.StripePriceID = priceID.String
	user.StripeCurrentPeriodEnd = TimePtr(periodEnd)
	return &user, nil
}

// Entitlement resolves the user's billing state. Unknown users are
// treated as unsubscribed.
func (s *UserStore) Entitlement(ctx context.Context, userID string) (domain.Entitlement, error) {
	user, err := s.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Entitlement{}, nil
	}
	if err != nil {
		return domain.Entitlement{}, err
	}
	return user.Entitlement(s.now()), nil
}
