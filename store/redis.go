// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig addresses a Redis server. Prefix namespaces every key.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis is a Store backed by a Redis server.
type Redis struct {
	codecStore
	client *redis.Client
}

type redisKV struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and pings it.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis %s", cfg.Addr)
	}

	return newRedis(client, cfg.Prefix), nil
}

func newRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{codecStore: codecStore{kv: redisKV{client: client, prefix: prefix}}, client: client}
}

func (r redisKV) key(k string) string {
	if r.prefix == "" {
		return k
	}

	return r.prefix + ":" + k
}

func (r redisKV) get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	return v, nil
}

func (r redisKV) set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(r.client.Set(ctx, r.key(key), value, 0).Err(), "redis set")
}

// Close closes the client.
func (r *Redis) Close() error {
	return errors.Wrap(r.client.Close(), "close redis")
}

var _ Store = (*Redis)(nil)
