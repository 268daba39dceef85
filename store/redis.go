package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore backs the state store with a single Redis connection
type RedisStore struct {
	cli *redis.Client
}

// NewRedisStore connects to Redis at the given URL
// (redis://[user:pass@]host:port/db)
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("💾 Redis state store connected")
	return &RedisStore{cli: cli}, nil
}

// Put writes one key
func (r *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := r.cli.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

// Get reads one key; the second return is false when the key is absent
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.cli.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Publish sends a message on a channel
func (r *RedisStore) Publish(ctx context.Context, channel string, message []byte) error {
	if err := r.cli.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

// Close releases the connection
func (r *RedisStore) Close() error {
	return r.cli.Close()
}
