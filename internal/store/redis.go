package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/fuel-alert/internal/cycle"
)

const (
	stateKey       = "fuelalert:state"
	subscribersKey = "fuelalert:subscribers"
)

// RedisBackend persists both documents as JSON strings under fixed
// keys. Same whole-document semantics as the file backend; a Redis SET
// is atomic, so no temp-and-rename dance is needed.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a redis backend for the given address.
func NewRedisBackend(addr string, db int) *RedisBackend {
	return &RedisBackend{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
	}
}

// NewRedisBackendWithClient wraps an existing client, used by tests.
func NewRedisBackendWithClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Ping verifies connectivity.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// LoadState reads the state document, returning nil when the key is unset.
func (b *RedisBackend) LoadState(ctx context.Context) (cycle.StateRecord, error) {
	var rec cycle.StateRecord
	if err := b.get(ctx, stateKey, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveState overwrites the state document.
func (b *RedisBackend) SaveState(ctx context.Context, rec cycle.StateRecord) error {
	return b.set(ctx, stateKey, rec)
}

// LoadSubscribers reads the registry, returning nil when the key is unset.
func (b *RedisBackend) LoadSubscribers(ctx context.Context) (Registry, error) {
	var reg Registry
	if err := b.get(ctx, subscribersKey, &reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// SaveSubscribers overwrites the registry.
func (b *RedisBackend) SaveSubscribers(ctx context.Context, reg Registry) error {
	return b.set(ctx, subscribersKey, reg)
}

func (b *RedisBackend) get(ctx context.Context, key string, v interface{}) error {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := b.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
