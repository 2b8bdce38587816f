package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/domain"
)

// DefaultRouteTTL bounds how long route metrics stay fresh; road conditions
// and transit schedules drift, so entries are not kept forever.
const DefaultRouteTTL = 7 * 24 * time.Hour

// RedisRouteCache is a Redis-backed route cache with TTL expiry, for
// deployments that share one cache across service instances.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func routeKey(origin, destination string, mode domain.TransportMode) string {
	return "route:" + origin + "|" + destination + "|" + string(mode)
}

// Get fetches a cached route; nil means cache miss or expired entry.
func (r *RedisRouteCache) Get(ctx context.Context, origin, destination string, mode domain.TransportMode) (*domain.RouteInfo, error) {
	if r.Client == nil {
		return nil, errors.New("route cache: redis client is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, errors.New("get route cache: origin and destination must not be empty")
	}

	raw, err := r.Client.Get(ctx, routeKey(origin, destination, mode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var route domain.RouteInfo
	if err := json.Unmarshal([]byte(raw), &route); err != nil {
		return nil, fmt.Errorf("get route cache: decode entry: %w", err)
	}
	return &route, nil
}

// Put stores a route result under the cache TTL.
func (r *RedisRouteCache) Put(ctx context.Context, origin, destination string, mode domain.TransportMode, route domain.RouteInfo) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	raw, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode entry: %w", err)
	}

	if err := r.Client.Set(ctx, routeKey(origin, destination, mode), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache %q -> %q mode=%s: %w", origin, destination, mode, err)
	}
	return nil
}
