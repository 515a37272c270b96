package locallock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/seatsync/ticketd/internal/adapter/lock/locallock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_MutualExclusion(t *testing.T) {
	lock := locallock.New()
	ctx := context.Background()

	granted, err := lock.Acquire(ctx, "event_lock_a", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = lock.Acquire(ctx, "event_lock_a", time.Minute)
	require.NoError(t, err)
	assert.False(t, granted)

	// Independent keys do not contend.
	granted, err = lock.Acquire(ctx, "event_lock_b", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestRelease_AllowsReacquire(t *testing.T) {
	lock := locallock.New()
	ctx := context.Background()

	granted, err := lock.Acquire(ctx, "event_lock_a", time.Minute)
	require.NoError(t, err)
	require.True(t, granted)

	require.NoError(t, lock.Release(ctx, "event_lock_a"))

	granted, err = lock.Acquire(ctx, "event_lock_a", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestTTL_ReclaimsCrashedHolder(t *testing.T) {
	lock := locallock.New()
	ctx := context.Background()

	granted, err := lock.Acquire(ctx, "event_lock_a", 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, granted)

	// Holder never releases; expiry self-heals the lock.
	time.Sleep(30 * time.Millisecond)

	granted, err = lock.Acquire(ctx, "event_lock_a", time.Minute)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestAcquire_SingleWinnerUnderContention(t *testing.T) {
	lock := locallock.New()
	ctx := context.Background()

	const contenders = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted, err := lock.Acquire(ctx, "event_lock_hot", time.Minute)
			assert.NoError(t, err)
			if granted {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}
