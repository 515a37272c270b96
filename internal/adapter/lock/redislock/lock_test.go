package redislock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/seatsync/ticketd/internal/adapter/lock/redislock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_Granted(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	lock := redislock.New(db)

	// The stored value is a random token; match by shape.
	mockRedis.Regexp().ExpectSetNX("event_lock_e1", `.+`, 10*time.Second).SetVal(true)

	granted, err := lock.Acquire(context.Background(), "event_lock_e1", 10*time.Second)

	require.NoError(t, err)
	assert.True(t, granted)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestAcquire_HeldByAnother(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	lock := redislock.New(db)

	mockRedis.Regexp().ExpectSetNX("event_lock_e1", `.+`, 10*time.Second).SetVal(false)

	granted, err := lock.Acquire(context.Background(), "event_lock_e1", 10*time.Second)

	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAcquire_RedisError(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	lock := redislock.New(db)

	mockRedis.Regexp().ExpectSetNX("event_lock_e1", `.+`, time.Second).SetErr(errors.New("connection refused"))

	granted, err := lock.Acquire(context.Background(), "event_lock_e1", time.Second)

	assert.Error(t, err)
	assert.False(t, granted)
}

func TestRelease(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	lock := redislock.New(db)

	mockRedis.ExpectDel("event_lock_e1").SetVal(1)

	assert.NoError(t, lock.Release(context.Background(), "event_lock_e1"))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRelease_AfterExpiry(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	lock := redislock.New(db)

	// Deleting a key the TTL already reclaimed is not an error.
	mockRedis.ExpectDel("event_lock_e1").SetVal(0)

	assert.NoError(t, lock.Release(context.Background(), "event_lock_e1"))
}
