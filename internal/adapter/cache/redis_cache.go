package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// redisCache implements domain.OutcomeCache on top of Redis
type redisCache struct {
	client *redis.Client
}

// NewRedisClient creates a go-redis client for addr
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisCache creates a new outcome cache backed by client
func NewRedisCache(client *redis.Client) domain.OutcomeCache {
	return &redisCache{client: client}
}

// Get returns the cached outcome for key. A missing key is not an error.
func (c *redisCache) Get(ctx context.Context, key string) (*domain.Outcome, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached outcome: %w", err)
	}

	var outcome domain.Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached outcome: %w", err)
	}

	return &outcome, true, nil
}

// Set stores outcome under key for ttl. A zero ttl keeps the entry forever.
func (c *redisCache) Set(ctx context.Context, key string, outcome domain.Outcome, ttl time.Duration) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache outcome: %w", err)
	}

	return nil
}

// noopCache never stores anything; used when Redis is not configured
type noopCache struct{}

// NewNoopCache creates a cache that always misses
func NewNoopCache() domain.OutcomeCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (*domain.Outcome, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(context.Context, string, domain.Outcome, time.Duration) error {
	return nil
}
