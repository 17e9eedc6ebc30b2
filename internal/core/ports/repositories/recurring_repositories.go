package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
)

// RecurringReader defines read operations for recurring templates and their runs
type RecurringReader interface {
	// FindTemplate retrieves a template with its lines.
	FindTemplate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error)

	// FindTemplateForUpdate is FindTemplate holding the template row lock until the transaction ends.
	FindTemplateForUpdate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates returns the workplace's templates ordered by name.
	ListTemplates(ctx context.Context, workplaceID string, includeInactive bool) ([]domain.RecurringTemplate, error)

	// ListDueTemplates returns templates of every workplace whose next run date is on or
	// before asOf, paused ones included so the caller can report them. Lines are not loaded.
	ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error)

	// HasRun reports whether the template already produced an entry for runDate.
	HasRun(ctx context.Context, templateID string, runDate time.Time) (bool, error)

	// LastRun returns the most recent run before runDate, or nil when there is none.
	LastRun(ctx context.Context, templateID string, before time.Time) (*domain.RecurringRun, error)
}

// RecurringWriter defines write operations for recurring templates and their runs
type RecurringWriter interface {
	// SaveTemplate inserts a template and its lines.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateSchedule persists NextRunDate and IsActive after a run.
	UpdateSchedule(ctx context.Context, templateID string, nextRunDate time.Time, isActive bool, userID string, at time.Time) error

	// SetTemplateActive pauses or resumes a template.
	SetTemplateActive(ctx context.Context, workplaceID, templateID string, active bool, userID string, at time.Time) error

	// RecordRun inserts the run history row. A second run for the same date fails.
	RecordRun(ctx context.Context, run domain.RecurringRun) error
}
