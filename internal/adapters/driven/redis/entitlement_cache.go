package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.EntitlementProvider = (*EntitlementCache)(nil)

const entitlementPrefix = "documentor:entitlement:"

// DefaultEntitlementTTL bounds how stale a cached billing state can be.
const DefaultEntitlementTTL = time.Minute

// EntitlementCache caches a provider's entitlements in Redis with a TTL.
// Cache failures fall through to the provider.
type EntitlementCache struct {
	client *redis.Client
	next   driven.EntitlementProvider
	ttl    time.Duration
	logger *slog.Logger
}

// NewEntitlementCache wraps next with a Redis read-through cache.
func NewEntitlementCache(client *redis.Client, next driven.EntitlementProvider, ttl time.Duration, logger *slog.Logger) *EntitlementCache {
	if ttl <= 0 {
		ttl = DefaultEntitlementTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntitlementCache{client: client, next: next, ttl: ttl, logger: logger}
}

// Entitlement returns the cached entitlement or resolves and caches it.
func (c *EntitlementCache) Entitlement(ctx context.Context, userID string) (domain.Entitlement, error) {
	key := entitlementPrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ent domain.Entitlement
		if jsonErr := json.Unmarshal(data, &ent); jsonErr == nil {
			return ent, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("entitlement cache read failed", "user_id", userID, "error", err)
	}

	ent, err := c.next.Entitlement(ctx, userID)
	if err != nil {
		return domain.Entitlement{}, err
	}

	if data, err := json.Marshal(ent); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("entitlement cache write failed", "user_id", userID, "error", err)
		}
	}
	return ent, nil
}

// Invalidate drops the cached entitlement, e.g. after a billing change.
func (c *EntitlementCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, entitlementPrefix+userID).Err()
}
