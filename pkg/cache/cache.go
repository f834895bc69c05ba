// Package cache stores JSON-encoded values under string keys.
//
// Redis is used when REDIS_ADDR is set. Without it Default stays nil and
// Remember always loads: a per-process cache would go stale as soon as a
// second replica writes to the same database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

// Store is the cache contract used by repositories and services.
// Get reports a hit; any backend error counts as a miss. Incr atomically
// bumps an integer key that never expires.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Default is the process-wide store, nil until Connect reaches Redis.
var Default Store

// RDB is the shared Redis client, nil when Redis is not configured.
var RDB *redis.Client

// Connect points Default at Redis when REDIS_ADDR is set and reachable.
func Connect(ctx context.Context) error {
	addr := config.RedisAddr()
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	Default = NewRedisStore(client, "bizadmin:")
	return nil
}

// RedisStore is a Store backed by go-redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil || json.Unmarshal(val, dest) != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.client.Del(ctx, full...).Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, s.prefix+key).Result()
}

// entry tags a cached value with the generation of its key at load time.
type entry[T any] struct {
	Gen   int64 `json:"gen"`
	Value T     `json:"value"`
}

func genKey(key string) string { return "gen:" + key }

func generation(ctx context.Context, s Store, key string) int64 {
	var n int64
	s.Get(ctx, genKey(key), &n)
	return n
}

// Remember returns the cached value for key or loads, stores and returns it.
// A cached value only counts while the key's generation is unchanged, so a
// load that raced an Invalidate is never served afterwards. A nil s always
// loads.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if s == nil {
		return load()
	}

	gen := generation(ctx, s, key)
	var e entry[T]
	if s.Get(ctx, key, &e) && e.Gen == gen {
		return e.Value, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if generation(ctx, s, key) == gen {
		_ = s.Set(ctx, key, entry[T]{Gen: gen, Value: v}, ttl)
	}
	return v, nil
}

// Invalidate bumps the generation of each key and drops its value.
func Invalidate(ctx context.Context, s Store, keys ...string) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, k := range keys {
		if _, err := s.Incr(ctx, genKey(k)); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, s.Del(ctx, keys...))
	return errors.Join(errs...)
}
