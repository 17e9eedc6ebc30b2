package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildDraft validates a proposed entry and stores it as a numbered draft.
func (s *journalService) BuildDraft(ctx context.Context, workplaceID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("workplace_id", workplaceID))

	if err := validateDraftRequest(req); err != nil {
		return nil, err
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.EntryStandard
	}
	if entryType == domain.EntryReversing || entryType == domain.EntryRecurring {
		return nil, apperrors.NewValidationError("entryType", "%s entries are generated by the engine", entryType)
	}
	rate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}

	now := s.now()
	entry := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		WorkplaceID:  workplaceID,
		EntryDate:    domain.DateOf(req.EntryDate),
		EntryType:    entryType,
		Description:  req.Description,
		Reference:    req.Reference,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: rate,
		Status:       domain.Draft,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	if req.Source != nil {
		entry.Source = &domain.SourceRef{Type: domain.SourceType(req.Source.Type), ID: req.Source.ID}
	}
	entry.Lines = make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		entry.Lines[i] = domain.JournalLine{
			LineID:              uuid.NewString(),
			EntryID:             entry.EntryID,
			LineNumber:          i + 1,
			AccountID:           l.AccountID,
			Debit:               l.Debit,
			Credit:              l.Credit,
			ForeignCurrencyCode: l.ForeignCurrencyCode,
			ForeignAmount:       l.ForeignAmount,
			ExchangeRate:        l.ExchangeRate,
			TaxCode:             l.TaxCode,
			TaxAmount:           l.TaxAmount,
			Description:         l.Description,
			LineTags: domain.LineTags{
				CostCenter: l.CostCenter,
				Project:    l.Project,
				Department: l.Department,
			},
		}
	}
	entry.RecomputeTotals()

	err := s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		if err := checkLineAccounts(ctx, repo, workplaceID, entry.Lines); err != nil {
			return err
		}
		if err := s.resolvePeriod(ctx, repo, &entry); err != nil {
			return err
		}
		return s.saveNewDraft(ctx, repo, &entry)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to build draft entry", slog.String("error", err.Error()))
		}
		return nil, err
	}

	if err := ValidateBalance(&entry); err != nil {
		// drafts may be unbalanced; posting enforces it
		logger.Warn("Draft entry is not postable yet",
			slog.String("entry_id", entry.EntryID),
			slog.String("reason", err.Error()))
	}
	logger.Info("Draft entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("entry_number", entry.EntryNumber))
	return &entry, nil
}

func validateDraftRequest(req dto.CreateEntryRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if len(req.Lines) < 2 {
		return apperrors.NewValidationError("lines", "at least two lines are required, got %d", len(req.Lines))
	}
	if req.ExchangeRate != nil {
		if err := checkRate("exchangeRate", *req.ExchangeRate); err != nil {
			return err
		}
	}
	for i, l := range req.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := checkAmount(field+".debit", l.Debit); err != nil {
			return err
		}
		if err := checkAmount(field+".credit", l.Credit); err != nil {
			return err
		}
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return apperrors.NewValidationError(field, "a line cannot carry both a debit and a credit")
		}
		if req.ForPosting && l.Debit.IsZero() && l.Credit.IsZero() {
			return apperrors.NewValidationError(field, "debit or credit must be positive")
		}
		if l.ForeignAmount != nil {
			if l.ForeignCurrencyCode == nil {
				return apperrors.NewValidationError(field+".foreignCurrencyCode", "required when foreignAmount is set")
			}
			if err := checkAmount(field+".foreignAmount", *l.ForeignAmount); err != nil {
				return err
			}
		}
		if l.ExchangeRate != nil {
			if err := checkRate(field+".exchangeRate", *l.ExchangeRate); err != nil {
				return err
			}
		}
		if l.TaxAmount != nil {
			if l.TaxCode == nil {
				return apperrors.NewValidationError(field+".taxCode", "required when taxAmount is set")
			}
			if err := checkAmount(field+".taxAmount", *l.TaxAmount); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkLineAccounts verifies every line names an active account of the workplace.
func checkLineAccounts(ctx context.Context, repo portsrepo.AccountReader, workplaceID string, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AccountID)
	}
	accounts, err := repo.FindAccountsByIDs(ctx, workplaceID, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for i, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("lines[%d].accountID", i), "account %s not found in workplace", l.AccountID)
		}
		if !acc.IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("lines[%d].accountID", i), "account %s is inactive", l.AccountID)
		}
	}
	return nil
}

// resolvePeriod records the covering fiscal period when one exists. A missing
// period is not an error for a draft.
func (s *journalService) resolvePeriod(ctx context.Context, repo portsrepo.PeriodReader, entry *domain.JournalEntry) error {
	period, err := repo.FindPeriodByDate(ctx, entry.WorkplaceID, entry.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			entry.FiscalPeriodID = nil
			return nil
		}
		return fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	entry.FiscalPeriodID = &period.PeriodID
	return nil
}

// saveNewDraft allocates the entry number and inserts the draft in the caller's transaction,
// so a rollback returns the number to the sequence.
func (s *journalService) saveNewDraft(ctx context.Context, repo portsrepo.EntryWriter, entry *domain.JournalEntry) error {
	number, err := repo.NextEntryNumber(ctx, entry.WorkplaceID)
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}
	entry.EntryNumber = number
	if err := repo.SaveEntry(ctx, *entry); err != nil {
		return fmt.Errorf("failed to save draft entry: %w", err)
	}
	return nil
}
