package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
)

// defaultMaxCatchUp bounds how many overdue occurrences one template may post in a single scan.
const defaultMaxCatchUp = 366

// SystemActor is recorded as the user on entries posted by the background scheduler.
const SystemActor = "system:recurring"

// journalService implements the journal engine: entry builder, posting engine,
// reversal generator, recurring scheduler and ledger projector share one store.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	locker      portssvc.EntryLocker
	notifier    portssvc.EventNotifier
	metrics     portssvc.MetricsRecorder
	now         portssvc.Clock
	maxCatchUp  int
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithEntryLocker adds a distributed per-entry lock in front of the row lock.
func WithEntryLocker(locker portssvc.EntryLocker) JournalServiceOption {
	return func(s *journalService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithEventNotifier sets where lifecycle events are delivered.
func WithEventNotifier(notifier portssvc.EventNotifier) JournalServiceOption {
	return func(s *journalService) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(metrics portssvc.MetricsRecorder) JournalServiceOption {
	return func(s *journalService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithClock overrides the time source used for "today" and audit stamps.
func WithClock(clock portssvc.Clock) JournalServiceOption {
	return func(s *journalService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithMaxCatchUp bounds the overdue occurrences posted per template per scan.
func WithMaxCatchUp(n int) JournalServiceOption {
	return func(s *journalService) {
		if n > 0 {
			s.maxCatchUp = n
		}
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		locker:      noopLocker{},
		notifier:    noopNotifier{},
		metrics:     noopMetrics{},
		now:         func() time.Time { return time.Now().UTC() },
		maxCatchUp:  defaultMaxCatchUp,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) today() time.Time {
	return domain.DateOf(s.now())
}

// publish delivers an event after commit. Delivery failures are logged only:
// the state change has already happened.
func (s *journalService) publish(ctx context.Context, event domain.EntryEvent) {
	ctx = context.WithoutCancel(ctx)
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish journal event",
			slog.String("event", string(event.Type)),
			slog.String("entry_id", event.EntryID))
	}
}

func newEvent(t domain.EventType, entry *domain.JournalEntry, actor string, at time.Time) domain.EntryEvent {
	return domain.EntryEvent{
		Type:         t,
		WorkplaceID:  entry.WorkplaceID,
		EntryID:      entry.EntryID,
		EntryNumber:  entry.EntryNumber,
		ActorID:      actor,
		OccurredAt:   at,
		TotalAmount:  entry.TotalDebit.StringFixed(domain.AmountScale),
		CurrencyCode: entry.CurrencyCode,
	}
}

// errorCategory names the taxonomy bucket of err for metrics and logs.
func errorCategory(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrInvariant):
		return "invariant"
	case errors.Is(err, apperrors.ErrBusinessRule):
		return "business_rule"
	case errors.Is(err, apperrors.ErrConcurrency):
		return "concurrency"
	case errors.Is(err, apperrors.ErrFatal):
		return "fatal"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func entryLockKey(entryID string) string {
	return "journal:entry:" + entryID
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.EntryEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) EntryPosted(domain.EntryType, int, time.Duration) {}
func (noopMetrics) EntryReversed()                                   {}
func (noopMetrics) EntryVoided()                                     {}
func (noopMetrics) PostingFailed(string)                             {}
func (noopMetrics) RecurringRun(string)                              {}
