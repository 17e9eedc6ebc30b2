package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// Reverse posts the mirror image of a posted entry and marks the source REVERSED,
// all in one transaction. The reversal is dated reversalDate, or today when nil.
func (s *journalService) Reverse(ctx context.Context, workplaceID, entryID string, reversalDate *time.Time, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("workplace_id", workplaceID),
		slog.String("entry_id", entryID))
	start := s.now()

	date := s.today()
	if reversalDate != nil {
		date = domain.DateOf(*reversalDate)
	}

	unlock, err := s.locker.Lock(ctx, entryLockKey(entryID))
	if err != nil {
		s.metrics.PostingFailed(errorCategory(err))
		return nil, err
	}
	defer unlock()

	var source, reversal *domain.JournalEntry
	err = s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		src, err := repo.FindEntryForUpdate(ctx, workplaceID, entryID)
		if err != nil {
			return err
		}
		if src.ReversedByID != nil || src.Status == domain.Reversed {
			reversalID := ""
			if src.ReversedByID != nil {
				reversalID = *src.ReversedByID
			}
			return &apperrors.AlreadyReversedError{EntryID: entryID, ReversalID: reversalID}
		}
		if src.Status != domain.Posted {
			return &apperrors.EntryNotPostedError{EntryID: entryID, Status: string(src.Status)}
		}
		if src.EntryType == domain.EntryReversing {
			return &apperrors.InvalidStateTransitionError{EntryID: entryID, From: string(src.Status), To: string(domain.Reversed)}
		}
		lines, err := repo.FindLines(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load entry lines: %w", err)
		}
		src.Lines = lines

		rev := buildReversal(src, date, userID, s.now())
		if err := s.saveNewDraft(ctx, repo, rev); err != nil {
			return err
		}
		if err := s.postInTx(ctx, repo, rev, userID); err != nil {
			return err
		}

		now := s.now()
		if err := repo.MarkReversed(ctx, src.EntryID, rev.EntryID, userID, now); err != nil {
			return fmt.Errorf("failed to mark source entry reversed: %w", err)
		}
		src.Status = domain.Reversed
		src.ReversedByID = &rev.EntryID
		src.Touch(userID, now)

		source, reversal = src, rev
		return nil
	})
	if err != nil {
		s.metrics.PostingFailed(errorCategory(err))
		logger.Warn("Reversal rejected", slog.String("error", err.Error()), slog.String("category", errorCategory(err)))
		return nil, err
	}

	s.metrics.EntryPosted(reversal.EntryType, len(reversal.Lines), s.now().Sub(start))
	s.metrics.EntryReversed()
	s.publish(ctx, newEvent(domain.EventEntryPosted, reversal, userID, *reversal.PostedAt))
	event := newEvent(domain.EventEntryReversed, source, userID, *reversal.PostedAt)
	event.RelatedID = &reversal.EntryID
	s.publish(ctx, event)

	logger.Info("Entry reversed",
		slog.String("reversal_id", reversal.EntryID),
		slog.Int64("reversal_number", reversal.EntryNumber))
	return reversal, nil
}

// buildReversal creates a draft that swaps every line's debit and credit while
// keeping accounts, amounts and analytic tags.
func buildReversal(src *domain.JournalEntry, date time.Time, userID string, now time.Time) *domain.JournalEntry {
	rev := &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		WorkplaceID:  src.WorkplaceID,
		EntryDate:    date,
		EntryType:    domain.EntryReversing,
		Source:       &domain.SourceRef{Type: domain.SourceReversal, ID: src.EntryID},
		Description:  fmt.Sprintf("Reversal of entry #%d", src.EntryNumber),
		Reference:    src.Reference,
		CurrencyCode: src.CurrencyCode,
		ExchangeRate: src.ExchangeRate,
		Status:       domain.Draft,
		ReversalOfID: &src.EntryID,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	if src.Description != "" {
		rev.Description += ": " + src.Description
	}
	rev.Lines = make([]domain.JournalLine, len(src.Lines))
	for i, l := range src.Lines {
		swapped := l.Swapped()
		swapped.LineID = uuid.NewString()
		swapped.EntryID = rev.EntryID
		rev.Lines[i] = swapped
	}
	rev.RecomputeTotals()
	return rev
}
