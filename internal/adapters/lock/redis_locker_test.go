package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, opts Options) (*RedisEntryLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisEntryLocker(client, opts), mr
}

func TestNewRedisEntryLocker_Defaults(t *testing.T) {
	locker, _ := newTestLocker(t, Options{})
	assert.Equal(t, DefaultOptions(), locker.opts)
}

func TestRedisEntryLocker_LockAndUnlock(t *testing.T) {
	locker, mr := newTestLocker(t, Options{Prefix: "test:"})
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "entry:e-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:entry:e-1"))

	unlock()
	assert.False(t, mr.Exists("test:entry:e-1"))

	unlock, err = locker.Lock(ctx, "entry:e-1")
	require.NoError(t, err)
	unlock()
}

func TestRedisEntryLocker_ContendedLockTimesOut(t *testing.T) {
	locker, _ := newTestLocker(t, Options{Tries: 3, RetryDelay: 10 * time.Millisecond, Expiry: 5 * time.Second})
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "entry:e-1")
	require.NoError(t, err)
	defer unlock()

	_, err = locker.Lock(ctx, "entry:e-1")
	require.Error(t, err)

	var timeout *apperrors.LockTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "entry:e-1", timeout.Resource)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestRedisEntryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker, _ := newTestLocker(t, Options{Tries: 1})
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "entry:a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(ctx, "entry:b")
	require.NoError(t, err)
	unlockB()
}

func TestRedisEntryLocker_MutualExclusion(t *testing.T) {
	locker, _ := newTestLocker(t, Options{Tries: 200, RetryDelay: 5 * time.Millisecond})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int32
		maxSeen int32
		done    int32
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "entry:shared")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			atomic.AddInt32(&done, 1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), done)
	assert.Equal(t, int32(1), maxSeen)
}

func TestRedisEntryLocker_CancelledContext(t *testing.T) {
	locker, _ := newTestLocker(t, Options{Tries: 50, RetryDelay: 20 * time.Millisecond})

	unlock, err := locker.Lock(context.Background(), "entry:e-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "entry:e-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
