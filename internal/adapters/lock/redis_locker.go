package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Options configures the redsync mutex used per entry.
type Options struct {
	// Expiry is how long a lock survives a crashed holder.
	Expiry time.Duration
	// Tries bounds the acquisition attempts before LockTimeoutError.
	Tries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// Prefix namespaces the redis keys.
	Prefix string
}

// DefaultOptions returns the defaults used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Expiry:     10 * time.Second,
		Tries:      20,
		RetryDelay: 100 * time.Millisecond,
		Prefix:     "journal_engine:lock:",
	}
}

// RedisEntryLocker serializes lifecycle operations on the same entry across
// processes. The database row lock remains the source of truth.
type RedisEntryLocker struct {
	rs   *redsync.Redsync
	opts Options
}

// NewRedisEntryLocker builds a locker on top of an existing go-redis client.
func NewRedisEntryLocker(client redis.UniversalClient, opts Options) *RedisEntryLocker {
	def := DefaultOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = def.Expiry
	}
	if opts.Tries <= 0 {
		opts.Tries = def.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.Prefix == "" {
		opts.Prefix = def.Prefix
	}
	return &RedisEntryLocker{
		rs:   redsync.New(goredis.NewPool(client)),
		opts: opts,
	}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to reach redis: %w", err)
	}
	slog.Info("Redis connection established", "addr", opt.Addr)
	return client, nil
}

// Lock acquires the mutex for key or returns a LockTimeoutError once all tries are spent.
func (l *RedisEntryLocker) Lock(ctx context.Context, key string) (func(), error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	name := l.opts.Prefix + key

	mutex := l.rs.NewMutex(name,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, &apperrors.LockTimeoutError{Resource: key, Err: err}
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to acquire entry lock "+key, fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
	}
	logger.Debug("entry lock acquired", slog.String("key", name))

	return func() {
		// The caller's context may already be cancelled; release regardless.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.opts.RetryDelay*5)
		defer cancel()
		if ok, err := mutex.UnlockContext(releaseCtx); !ok || err != nil {
			logger.Warn("failed to release entry lock", slog.String("key", name), slog.Any("error", err))
		}
	}, nil
}
