// Package cache wraps the Redis client used for tenant lookups.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// TenantCache stores API-key to company resolutions with a TTL so the
// companies table is not hit on every request.
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTenantCache builds a TenantCache. A nil client disables caching.
func NewTenantCache(client *redis.Client, ttl time.Duration) *TenantCache {
	return &TenantCache{client: client, ttl: ttl}
}

// Get returns the cached company ID for a key fingerprint, or 0 on miss.
func (c *TenantCache) Get(ctx context.Context, fingerprint string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	id, err := c.client.Get(ctx, tenantKey(fingerprint)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("platform/cache: get tenant: %w", err)
	}
	return id, nil
}

// Put stores a resolved company ID for a key fingerprint.
func (c *TenantCache) Put(ctx context.Context, fingerprint string, companyID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, tenantKey(fingerprint), companyID, c.ttl).Err()
}

// Invalidate drops a cached resolution, used when a company rotates its key.
func (c *TenantCache) Invalidate(ctx context.Context, fingerprint string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, tenantKey(fingerprint)).Err()
}

func tenantKey(fingerprint string) string {
	return "hisaab:tenant:" + fingerprint
}
