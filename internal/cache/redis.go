// Package cache stores Overpass results in Redis so repeated queries for the
// same place and amenity type do not hit the public API again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amenitymap/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached points for key. A miss is reported with ok=false and
// a nil error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]models.PointOfInterest, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var pois []models.PointOfInterest
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, false, fmt.Errorf("decode cached points: %w", err)
	}
	return pois, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, pois []models.PointOfInterest) error {
	encoded, err := json.Marshal(pois)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, encoded, c.ttl).Err()
}
