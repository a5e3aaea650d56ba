package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Key prefixes under which the application layer caches governance reads.
const (
	scopeTags   = "tags"
	scopeGroups = "groups"
	scopeConfig = "config"
)

// RedisGateway invalidates cached reads by deleting keys under the org's
// governance prefixes.
type RedisGateway struct {
	c *redis.Client
}

// NewRedisGateway creates a gateway over an existing Redis client.
func NewRedisGateway(c *redis.Client) *RedisGateway {
	return &RedisGateway{c: c}
}

var _ Gateway = (*RedisGateway)(nil)

func (g *RedisGateway) InvalidateTenantTags(ctx context.Context, orgID string) error {
	return g.dropScope(ctx, orgID, scopeTags)
}

func (g *RedisGateway) InvalidateTenantGroups(ctx context.Context, orgID string) error {
	return g.dropScope(ctx, orgID, scopeGroups)
}

func (g *RedisGateway) InvalidateEffectiveConfig(ctx context.Context, orgID string) error {
	return g.dropScope(ctx, orgID, scopeConfig)
}

func (g *RedisGateway) dropScope(ctx context.Context, orgID, scope string) error {
	pattern := ScopePattern(orgID, scope)
	var cursor uint64
	for {
		keys, next, err := g.c.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := g.c.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache del %s: %w", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// ScopePattern returns the key glob covering one org's cached reads for a
// scope. The application layer must build its cache keys under this prefix.
func ScopePattern(orgID, scope string) string {
	return fmt.Sprintf("govern:%s:%s:*", orgID, scope)
}
