package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis is a key-value backend on a Redis server. All keys share a namespace prefix.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis wraps an existing client. namespace is prepended to every key.
func NewRedis(client *redis.Client, namespace string) *Redis {
	if client == nil {
		panic("store.NewRedis: client is nil")
	}
	return &Redis{client: client, namespace: namespace}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns the raw value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key without expiry. A server out of memory reports ErrQuotaExceeded.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	err := r.client.Set(ctx, r.namespace+key, value, 0).Err()
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "OOM") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("writing %s: %w", key, err)
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.namespace+key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys scans for every key starting with prefix and returns them sorted, without namespace.
func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := globEscape(r.namespace+prefix) + "*"

	var keys []string
	seen := make(map[string]bool)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		// SCAN may return a key more than once.
		k := strings.TrimPrefix(iter.Val(), r.namespace)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning keys: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

func globEscape(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			sb.WriteRune('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
