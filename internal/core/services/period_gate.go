package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
)

// checkPeriod returns the open period covering date for an entry of entryType.
// Closed periods admit adjusting entries only while the calendar allows it;
// locked periods admit nothing.
func checkPeriod(ctx context.Context, repo portsrepo.PeriodReader, workplaceID string, date time.Time, entryType domain.EntryType) (*domain.FiscalPeriod, error) {
	period, err := repo.FindPeriodByDate(ctx, workplaceID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.NoPeriodDefinedError{Date: date}
		}
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}

	closed := &apperrors.PeriodClosedError{
		Date:     date,
		PeriodID: period.PeriodID,
		Period:   period.Name,
		Status:   string(period.Status),
	}
	switch period.Status {
	case domain.PeriodOpen:
		return period, nil
	case domain.PeriodClosed:
		if entryType != domain.EntryAdjusting {
			return nil, closed
		}
		allowed, err := repo.AdjustmentsAllowed(ctx, workplaceID, period.PeriodID)
		if err != nil {
			return nil, fmt.Errorf("failed to check adjustment permission: %w", err)
		}
		if !allowed {
			return nil, closed
		}
		return period, nil
	default:
		return nil, closed
	}
}
