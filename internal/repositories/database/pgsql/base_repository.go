package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the store reacts to.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Options tunes transaction behaviour.
type Options struct {
	// LockTimeout bounds every lock wait inside a transaction.
	LockTimeout time.Duration
	// MaxRetries is how many times a transaction aborted by a serialization
	// failure or deadlock is rerun before SerializationError is returned.
	MaxRetries int
	// RetryBackoff is the first retry delay; it doubles per attempt.
	RetryBackoff time.Duration
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{LockTimeout: 5 * time.Second, MaxRetries: 3, RetryBackoff: 25 * time.Millisecond}
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction at the given isolation level.
func (r *BaseRepository) Begin(ctx context.Context, iso pgx.TxIsoLevel) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// WithinTransaction runs fn in a REPEATABLE READ transaction with lock_timeout set.
// Serialization failures and deadlocks rerun fn from scratch with exponential
// backoff; once retries are exhausted the last failure is returned as SerializationError.
// A call made with the transaction-scoped repository joins the running transaction.
func (r *PgxJournalRepository) WithinTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	if r.inTx {
		return fn(ctx, r)
	}

	var lastErr error
	attempts := 0
	for attempts <= r.opts.MaxRetries {
		attempts++
		err := r.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
		if attempts > r.opts.MaxRetries {
			break
		}
		delay := r.backoff(attempts)
		middleware.GetLoggerFromCtx(ctx).Warn("Retrying aborted transaction",
			slog.Int("attempt", attempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &apperrors.SerializationError{Attempts: attempts, Err: lastErr}
}

func (r *PgxJournalRepository) runTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx, pgx.RepeatableRead)
	if err != nil {
		return err
	}
	return r.runInTx(ctx, tx, fn)
}

// runInTx runs fn on tx and commits. Cancellation is honoured up to the commit; the
// commit itself is not cancellable.
func (r *PgxJournalRepository) runInTx(ctx context.Context, tx pgx.Tx, fn portsrepo.TxFunc) error {
	defer r.Rollback(context.WithoutCancel(ctx), tx)

	if r.opts.LockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.opts.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return apperrors.NewAppError(500, "failed to set lock timeout", err)
		}
	}

	txRepo := &PgxJournalRepository{BaseRepository: r.BaseRepository, q: tx, inTx: true, opts: r.opts}
	if err := fn(ctx, txRepo); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Commit(context.WithoutCancel(ctx), tx)
}

func (r *PgxJournalRepository) backoff(attempt int) time.Duration {
	base := r.opts.RetryBackoff
	if base <= 0 {
		base = DefaultOptions().RetryBackoff
	}
	d := base << (attempt - 1)
	return d + rand.N(base)
}

func pgErrorCode(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

// isTransient reports whether err aborted the transaction in a way a rerun can fix.
func isTransient(err error) bool {
	code, _ := pgErrorCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// mapError turns a driver error into the error taxonomy. Transient aborts are kept
// intact so WithinTransaction can recognise them.
func mapError(err error, resource, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(resource + " not found")
	}
	code, _ := pgErrorCode(err)
	switch code {
	case codeLockNotAvailable:
		return &apperrors.LockTimeoutError{Resource: resource, Err: err}
	case codeSerializationFailure, codeDeadlockDetected:
		return err
	case codeUniqueViolation:
		return apperrors.NewAppError(409, message, fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err))
	case codeCheckViolation, codeForeignKeyViolation:
		return apperrors.NewAppError(500, message, fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewAppError(500, message, err)
}
