// Package locallock implements the advisory lock in process memory for
// single-node deployments and tests. Same contract as the Redis adapter:
// atomic check-and-set with a TTL, no blocking, no fairness.
package locallock

import (
	"context"
	"sync"
	"time"
)

type Lock struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func New() *Lock {
	return &Lock{held: make(map[string]time.Time)}
}

func (l *Lock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *Lock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
