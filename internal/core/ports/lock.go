package ports

import (
	"context"
	"time"
)

// Locker is an advisory mutual-exclusion primitive with atomic
// check-and-set and TTL semantics. Acquire returns false immediately when
// another holder has the key; it never blocks or retries internally.
// Release is best-effort and safe to call regardless of ownership, since
// the TTL bounds worst-case staleness. A crashed holder is recovered
// purely by TTL expiry.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
