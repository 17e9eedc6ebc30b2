package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
)

// Post moves a draft entry to POSTED and materializes its ledger rows in one transaction.
func (s *journalService) Post(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("workplace_id", workplaceID),
		slog.String("entry_id", entryID))
	start := s.now()

	unlock, err := s.locker.Lock(ctx, entryLockKey(entryID))
	if err != nil {
		s.metrics.PostingFailed(errorCategory(err))
		logger.Warn("Could not acquire entry lock", slog.String("error", err.Error()))
		return nil, err
	}
	defer unlock()

	var posted *domain.JournalEntry
	err = s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		entry, err := repo.FindEntryForUpdate(ctx, workplaceID, entryID)
		if err != nil {
			return err
		}
		switch entry.Status {
		case domain.Posted, domain.Reversed:
			return &apperrors.AlreadyPostedError{EntryID: entryID, Status: string(entry.Status)}
		case domain.Voided:
			return &apperrors.InvalidStateTransitionError{EntryID: entryID, From: string(entry.Status), To: string(domain.Posted)}
		}
		lines, err := repo.FindLines(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load entry lines: %w", err)
		}
		entry.Lines = lines
		if err := s.postInTx(ctx, repo, entry, userID); err != nil {
			return err
		}
		posted = entry
		return nil
	})
	if err != nil {
		s.metrics.PostingFailed(errorCategory(err))
		if apperrors.IsFatal(err) {
			logger.Error("Posting aborted on invariant violation", slog.String("error", err.Error()))
		} else {
			logger.Warn("Posting rejected", slog.String("error", err.Error()), slog.String("category", errorCategory(err)))
		}
		return nil, err
	}

	s.metrics.EntryPosted(posted.EntryType, len(posted.Lines), s.now().Sub(start))
	s.publish(ctx, newEvent(domain.EventEntryPosted, posted, userID, *posted.PostedAt))
	logger.Info("Entry posted",
		slog.Int64("entry_number", posted.EntryNumber),
		slog.String("total", posted.TotalDebit.StringFixed(domain.AmountScale)))
	return posted, nil
}

// postInTx runs the posting pipeline for a draft whose lines are loaded: balance
// check, period gate, per-account serialization, ledger rows and the status flip.
// The caller owns the transaction and the entry lock.
func (s *journalService) postInTx(ctx context.Context, repo portsrepo.JournalRepositoryFacade, entry *domain.JournalEntry, userID string) error {
	if !entry.Status.CanTransitionTo(domain.Posted) {
		return &apperrors.InvalidStateTransitionError{EntryID: entry.EntryID, From: string(entry.Status), To: string(domain.Posted)}
	}

	sort.SliceStable(entry.Lines, func(i, j int) bool { return entry.Lines[i].LineNumber < entry.Lines[j].LineNumber })
	entry.RecomputeTotals()
	if err := ValidateBalance(entry); err != nil {
		return err
	}

	period, err := checkPeriod(ctx, repo, entry.WorkplaceID, entry.EntryDate, entry.EntryType)
	if err != nil {
		return err
	}

	// accounts may have been deactivated since the draft was built
	if err := checkLineAccounts(ctx, repo, entry.WorkplaceID, entry.Lines); err != nil {
		return err
	}
	accountIDs := entry.AccountIDs()
	sort.Strings(accountIDs)
	accounts, err := repo.FindAccountsByIDs(ctx, entry.WorkplaceID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	if err := repo.LockAccounts(ctx, entry.WorkplaceID, accountIDs); err != nil {
		return err
	}
	opening, err := repo.LatestRunningBalances(ctx, entry.WorkplaceID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to read running balances: %w", err)
	}

	now := s.now()
	rows, err := projectLedgerRows(entry, accounts, opening, period.PeriodID, now)
	if err != nil {
		return err
	}
	written, err := repo.InsertLedgerRows(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to write ledger rows: %w", err)
	}
	if written != len(entry.Lines) {
		return &apperrors.InvariantViolationError{
			EntryID: entry.EntryID,
			Detail:  fmt.Sprintf("wrote %d ledger rows for %d lines", written, len(entry.Lines)),
		}
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &userID
	entry.FiscalPeriodID = &period.PeriodID
	entry.Touch(userID, now)
	if err := repo.UpdateEntryStatus(ctx, *entry); err != nil {
		return fmt.Errorf("failed to mark entry posted: %w", err)
	}
	return nil
}

// Void retires a draft without ever touching the ledger. Its lines are kept.
func (s *journalService) Void(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("workplace_id", workplaceID),
		slog.String("entry_id", entryID))

	unlock, err := s.locker.Lock(ctx, entryLockKey(entryID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var voided *domain.JournalEntry
	err = s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		entry, err := repo.FindEntryForUpdate(ctx, workplaceID, entryID)
		if err != nil {
			return err
		}
		switch entry.Status {
		case domain.Posted, domain.Reversed:
			return &apperrors.CannotVoidPostedEntryError{EntryID: entryID, Status: string(entry.Status)}
		case domain.Voided:
			return &apperrors.InvalidStateTransitionError{EntryID: entryID, From: string(entry.Status), To: string(domain.Voided)}
		}
		if !entry.TotalDebit.Equal(entry.TotalCredit) {
			// non-draft entries always balance, voided ones included
			return &apperrors.UnbalancedEntryError{
				EntryID:     entryID,
				TotalDebit:  entry.TotalDebit,
				TotalCredit: entry.TotalCredit,
				Difference:  entry.TotalDebit.Sub(entry.TotalCredit),
			}
		}
		entry.Status = domain.Voided
		entry.Touch(userID, s.now())
		if err := repo.UpdateEntryStatus(ctx, *entry); err != nil {
			return fmt.Errorf("failed to mark entry voided: %w", err)
		}
		voided = entry
		return nil
	})
	if err != nil {
		logger.Warn("Void rejected", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.EntryVoided()
	s.publish(ctx, newEvent(domain.EventEntryVoided, voided, userID, voided.LastUpdatedAt))
	logger.Info("Entry voided")
	return voided, nil
}
