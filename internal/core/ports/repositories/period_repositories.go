package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
)

// PeriodReader is the engine's view of the fiscal calendar.
type PeriodReader interface {
	// FindPeriodByDate returns the period covering date, or an error matching
	// apperrors.ErrNotFound when none does.
	FindPeriodByDate(ctx context.Context, workplaceID string, date time.Time) (*domain.FiscalPeriod, error)

	// AdjustmentsAllowed reports whether adjusting entries may still post into a closed period.
	AdjustmentsAllowed(ctx context.Context, workplaceID, periodID string) (bool, error)
}
