package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var (
	_ driven.UserStore           = (*MockUserStore)(nil)
	_ driven.EntitlementProvider = (*MockUserStore)(nil)
)

// MockUserStore is an in-memory UserStore that also resolves entitlements
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	EntitlementErr error
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*domain.User)}
}

func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserStore) Entitlement(ctx context.Context, userID string) (domain.Entitlement, error) {
	if m.EntitlementErr != nil {
		return domain.Entitlement{}, m.EntitlementErr
	}
	u, err := m.Get(ctx, userID)
	if err != nil {
		// unknown users are on the free plan
		return domain.Entitlement{}, nil
	}
	return u.Entitlement(time.Now()), nil
}

// Subscribe gives the user an active paid period (for test setup)
func (m *MockUserStore) Subscribe(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := time.Now().Add(30 * 24 * time.Hour)
	u, ok := m.users[userID]
	if !ok {
		u = &domain.User{ID: userID}
		m.users[userID] = u
	}
	u.StripePriceID = "price_test"
	u.StripeCurrentPeriodEnd = &end
}
