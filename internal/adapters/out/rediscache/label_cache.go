// Package rediscache caches reverse geocoding labels in Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const DefaultLabelTTL = 7 * 24 * time.Hour

var ErrLabelNotCached = errors.New("label not cached")

// LabelCache stores place labels keyed by coordinates rounded to four decimals
// (about 11 m), so nearby waypoints share one entry.
type LabelCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLabelCache creates a cache from a URL of the form
// redis://[:password@]host[:port][/database]. A non-positive ttl selects DefaultLabelTTL.
func NewLabelCache(redisURL string, ttl time.Duration) (*LabelCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultLabelTTL
	}

	return &LabelCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Get returns the cached label or ErrLabelNotCached.
func (c *LabelCache) Get(ctx context.Context, location kernel.Location) (string, error) {
	key := labelKey(location)
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrLabelNotCached
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores a label with the configured TTL.
func (c *LabelCache) Set(ctx context.Context, location kernel.Location, label string) error {
	key := labelKey(location)
	if err := c.client.Set(ctx, key, label, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (c *LabelCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *LabelCache) Close() error {
	return c.client.Close()
}

func labelKey(location kernel.Location) string {
	return fmt.Sprintf("label:%.4f:%.4f", location.Lat(), location.Lng())
}

// CachingReverseGeocoder serves labels from a LabelCache and asks the wrapped
// geocoder only on a miss. Cache failures are logged and otherwise ignored.
type CachingReverseGeocoder struct {
	next   ports.ReverseGeocoder
	cache  *LabelCache
	logger *slog.Logger
}

// NewCachingReverseGeocoder wraps next with cache.
func NewCachingReverseGeocoder(next ports.ReverseGeocoder, cache *LabelCache, logger *slog.Logger) *CachingReverseGeocoder {
	return &CachingReverseGeocoder{
		next:   next,
		cache:  cache,
		logger: logger.With("component", "label_cache"),
	}
}

// ReverseGeocode implements ports.ReverseGeocoder.
func (g *CachingReverseGeocoder) ReverseGeocode(ctx context.Context, location kernel.Location) (string, error) {
	if err := location.Validate(); err != nil {
		return "", err
	}

	label, err := g.cache.Get(ctx, location)
	if err == nil {
		return label, nil
	}
	if !errors.Is(err, ErrLabelNotCached) {
		g.logger.WarnContext(ctx, "label cache read failed", "location", location.String(), "error", err)
	}

	label, err = g.next.ReverseGeocode(ctx, location)
	if err != nil {
		return "", err
	}

	if err = g.cache.Set(ctx, location, label); err != nil {
		g.logger.WarnContext(ctx, "label cache write failed", "location", location.String(), "error", err)
	}

	return label, nil
}
