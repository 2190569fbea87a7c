// Package redis provides a Redis-backed implementation of storage.BlobStore.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/mmynk/rollbook/internal/storage"
)

var _ storage.BlobStore = (*RedisStore)(nil)

// DefaultPrefix namespaces Rollbook keys inside a shared Redis database.
const DefaultPrefix = "rollbook:"

// RedisStore implements storage.BlobStore with plain Redis strings.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

// New wraps an existing client. Keys are stored as prefix+key.
func New(client *goredis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Dial connects to addr, verifies the connection with PING and returns a store
// that owns the client.
func Dial(ctx context.Context, addr string, db int, prefix string) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return New(client, prefix), nil
}

// blobKey generates the Redis key for a blob.
func (s *RedisStore) blobKey(key string) string {
	return s.prefix + key
}

// Get retrieves the blob stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.blobKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob from redis: %w", err)
	}
	return value, nil
}

// Put writes value under key with no expiry.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.blobKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put blob to redis: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.blobKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete blob from redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
