package services

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
)

// EntryLocker provides cross-process mutual exclusion per entry, in front of the
// database row lock.
type EntryLocker interface {
	// Lock blocks until the lock for key is held or the bounded wait expires,
	// in which case it returns a LockTimeoutError. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventNotifier delivers lifecycle events to downstream consumers.
type EventNotifier interface {
	Notify(ctx context.Context, event domain.EntryEvent) error
}

// MetricsRecorder receives engine counters.
type MetricsRecorder interface {
	EntryPosted(entryType domain.EntryType, lines int, elapsed time.Duration)
	EntryReversed()
	EntryVoided()
	PostingFailed(category string)
	RecurringRun(outcome string)
}

// Clock supplies the current time.
type Clock func() time.Time
