package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/journal_engine/internal/adapters/events"
	"github.com/SscSPs/journal_engine/internal/adapters/lock"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/core/services"
	"github.com/SscSPs/journal_engine/internal/handlers"
	"github.com/SscSPs/journal_engine/internal/platform/config"
	"github.com/SscSPs/journal_engine/internal/platform/metrics"
	"github.com/SscSPs/journal_engine/internal/repositories/database/memory"
	"github.com/SscSPs/journal_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/journal_engine/pkg/database"
)

// runtime holds everything a command needs, plus the closers to release it.
type runtime struct {
	services *portssvc.ServiceContainer
	metrics  *metrics.Recorder
	checks   []handlers.HealthCheck
	closers  []func()
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// buildRuntime wires store, lock, notifier and metrics according to cfg.
func buildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{metrics: metrics.NewRecorder()}

	repo, err := buildStore(ctx, cfg, logger, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	opts := []services.JournalServiceOption{
		services.WithMetricsRecorder(rt.metrics),
	}

	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		rt.checks = append(rt.checks, handlers.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
		opts = append(opts, services.WithEntryLocker(lock.NewRedisEntryLocker(client, lock.Options{
			Expiry:     cfg.EntryLockExpiry,
			Tries:      cfg.EntryLockTries,
			RetryDelay: cfg.EntryLockRetryDelay,
		})))
	} else {
		logger.Info("REDIS_URL not set, relying on database locks only")
	}

	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() {
			if err := conn.Close(); err != nil {
				logger.Warn("Error closing RabbitMQ connection", slog.String("error", err.Error()))
			}
		})
		notifier := events.NewRabbitMQNotifier(conn.Channel, cfg.RabbitMQExchange, events.DefaultBreakerOptions())
		rt.checks = append(rt.checks, handlers.HealthCheck{Name: "rabbitmq", Check: func(context.Context) error {
			if state := notifier.State(); state == "open" {
				return errors.New("circuit open")
			}
			return nil
		}})
		opts = append(opts, services.WithEventNotifier(notifier))
	} else {
		logger.Info("RABBITMQ_URL not set, events are logged only")
		opts = append(opts, services.WithEventNotifier(events.LogNotifier{}))
	}

	rt.services = services.NewServiceContainer(repo, opts...)
	return rt, nil
}

func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, rt *runtime) (portsrepo.JournalRepositoryWithTx, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore(cfg.DBLockTimeout)
		if seedFile != "" {
			if err := store.LoadSeedFile(seedFile); err != nil {
				return nil, err
			}
			logger.Info("Memory store seeded", slog.String("file", seedFile))
		}
		logger.Warn("Using in-memory store, nothing will be persisted")
		return store, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{Ping: cfg.EnableDBCheck})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		rt.closers = append(rt.closers, func() { database.ClosePgxPool(pool) })
		rt.checks = append(rt.checks, handlers.HealthCheck{Name: "postgres", Check: pool.Ping})
		logger.Info("Database connection pool established.")

		return pgsql.NewRepositoryProvider(pool, pgsql.Options{
			LockTimeout:  cfg.DBLockTimeout,
			MaxRetries:   cfg.DBTxMaxRetries,
			RetryBackoff: pgsql.DefaultOptions().RetryBackoff,
		}), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
