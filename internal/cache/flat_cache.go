package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/config"
)

const flatsVersionKey = "cache:flats:version"

// unknownGeneration is reported when the counter cannot be read; SetFlats skips it.
const unknownGeneration int64 = -1

// RedisFlatCache keeps public flat listings in Redis.
// Invalidation bumps a generation counter so every filter key goes stale at once.
type RedisFlatCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient opens a Redis client for cfg.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// NewRedisFlatCache creates a RedisFlatCache.
func NewRedisFlatCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisFlatCache {
	return &RedisFlatCache{client: client, ttl: ttl, logger: logger}
}

var _ application.FlatCache = (*RedisFlatCache)(nil)

// GetFlats returns the cached listing for key and the generation it was looked
// up under. Any Redis failure counts as a miss.
func (c *RedisFlatCache) GetFlats(ctx context.Context, key string) ([]application.FlatDTO, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("flat cache unavailable", zap.Error(err))
		return nil, unknownGeneration, false
	}
	data, err := c.client.Get(ctx, flatsKey(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("flat cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, gen, false
	}

	var flats []application.FlatDTO
	if err := json.Unmarshal(data, &flats); err != nil {
		c.logger.Warn("flat cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, gen, false
	}
	return flats, gen, true
}

// SetFlats stores a listing under gen, the generation returned by the miss that
// preceded the load. A listing from an invalidated generation is never read again.
func (c *RedisFlatCache) SetFlats(ctx context.Context, key string, gen int64, flats []application.FlatDTO) {
	if gen == unknownGeneration {
		return
	}
	payload, err := json.Marshal(flats)
	if err != nil {
		c.logger.Warn("flat cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, flatsKey(gen, key), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("flat cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateFlats drops every cached listing.
func (c *RedisFlatCache) InvalidateFlats(ctx context.Context) {
	if err := c.client.Incr(ctx, flatsVersionKey).Err(); err != nil {
		c.logger.Error("flat cache invalidation failed", zap.Error(err))
	}
}

func (c *RedisFlatCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, flatsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func flatsKey(gen int64, key string) string {
	return fmt.Sprintf("cache:flats:v%d:%s", gen, key)
}
