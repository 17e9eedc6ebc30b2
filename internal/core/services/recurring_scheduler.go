package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CreateTemplate validates and stores a recurring template. Its first run is StartDate.
func (s *journalService) CreateTemplate(ctx context.Context, workplaceID string, req dto.CreateTemplateRequest, userID string) (*domain.RecurringTemplate, error) {
	if err := validateTemplateRequest(req); err != nil {
		return nil, err
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.EntryRecurring
	}
	start := domain.DateOf(req.StartDate)
	var end *time.Time
	if req.EndDate != nil {
		e := domain.DateOf(*req.EndDate)
		end = &e
	}

	now := s.now()
	tmpl := domain.RecurringTemplate{
		TemplateID:   uuid.NewString(),
		WorkplaceID:  workplaceID,
		Name:         req.Name,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		EntryType:    entryType,
		Frequency:    req.Frequency,
		StartDate:    start,
		EndDate:      end,
		NextRunDate:  start,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, now),
		Lines:        make([]domain.TemplateLine, len(req.Lines)),
	}
	accountLines := make([]domain.JournalLine, 0, len(req.Lines)*2)
	for i, l := range req.Lines {
		strategy := l.Strategy
		if strategy == "" {
			strategy = domain.StrategyFixed
		}
		tmpl.Lines[i] = domain.TemplateLine{
			LineNumber:     i + 1,
			AccountID:      l.AccountID,
			Side:           l.Side,
			Strategy:       strategy,
			Amount:         l.Amount,
			Percent:        l.Percent,
			BasisAccountID: l.BasisAccountID,
			Description:    l.Description,
			LineTags:       domain.LineTags{CostCenter: l.CostCenter, Project: l.Project, Department: l.Department},
		}
		accountLines = append(accountLines, domain.JournalLine{AccountID: l.AccountID})
		if l.BasisAccountID != nil {
			accountLines = append(accountLines, domain.JournalLine{AccountID: *l.BasisAccountID})
		}
	}

	err := s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		if err := checkLineAccounts(ctx, repo, workplaceID, accountLines); err != nil {
			return err
		}
		return repo.SaveTemplate(ctx, tmpl)
	})
	if err != nil {
		s.LogWarn(ctx, "Failed to create recurring template", slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Recurring template created",
		slog.String("template_id", tmpl.TemplateID),
		slog.String("frequency", string(tmpl.Frequency)))
	return &tmpl, nil
}

func validateTemplateRequest(req dto.CreateTemplateRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if req.EndDate != nil && domain.DateOf(*req.EndDate).Before(domain.DateOf(req.StartDate)) {
		return apperrors.NewValidationError("endDate", "must not be before startDate")
	}
	allFixed := true
	debit, credit := decimal.Zero, decimal.Zero
	for i, l := range req.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if err := checkAmount(field+".amount", l.Amount); err != nil {
			return err
		}
		switch l.Strategy {
		case domain.StrategyFixed, "", domain.StrategyCopyLastRun:
			// copy-last-run falls back to the fixed amount on the first run
			if !l.Amount.IsPositive() {
				return apperrors.NewValidationError(field+".amount", "must be positive")
			}
			if l.Strategy == domain.StrategyCopyLastRun {
				allFixed = false
			}
		case domain.StrategyPercentOfBalance:
			allFixed = false
			if l.Percent == nil || !l.Percent.IsPositive() {
				return apperrors.NewValidationError(field+".percent", "a positive percent is required")
			}
			if !domain.FitsScale(*l.Percent, domain.RateScale) {
				return apperrors.NewValidationError(field+".percent", "at most %d decimal places allowed", domain.RateScale)
			}
			if l.BasisAccountID == nil || *l.BasisAccountID == "" {
				return apperrors.NewValidationError(field+".basisAccountID", "required for %s", l.Strategy)
			}
		}
		if l.Side == domain.DebitSide {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}
	if allFixed && !debit.Equal(credit) {
		return apperrors.NewValidationError("lines", "fixed amounts do not balance: debits %s, credits %s",
			debit.StringFixed(domain.AmountScale), credit.StringFixed(domain.AmountScale))
	}
	return nil
}

// GetTemplate retrieves a template with its lines.
func (s *journalService) GetTemplate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	return s.journalRepo.FindTemplate(ctx, workplaceID, templateID)
}

// ListTemplates lists the workplace's templates, active ones only unless asked otherwise.
func (s *journalService) ListTemplates(ctx context.Context, workplaceID string, params dto.ListTemplatesParams) ([]domain.RecurringTemplate, error) {
	return s.journalRepo.ListTemplates(ctx, workplaceID, params.IncludeInactive)
}

// PauseTemplate stops a template from producing entries until resumed.
func (s *journalService) PauseTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error) {
	return s.setTemplateActive(ctx, workplaceID, templateID, false, userID)
}

// ResumeTemplate reactivates a paused template. Occurrences missed while paused are caught up.
func (s *journalService) ResumeTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error) {
	return s.setTemplateActive(ctx, workplaceID, templateID, true, userID)
}

func (s *journalService) setTemplateActive(ctx context.Context, workplaceID, templateID string, active bool, userID string) (*domain.RecurringTemplate, error) {
	var tmpl *domain.RecurringTemplate
	err := s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		t, err := repo.FindTemplateForUpdate(ctx, workplaceID, templateID)
		if err != nil {
			return err
		}
		if active && t.Expired(t.NextRunDate) {
			return apperrors.NewValidationError("templateID", "template ended on %s", t.EndDate.Format(time.DateOnly))
		}
		now := s.now()
		if err := repo.SetTemplateActive(ctx, workplaceID, templateID, active, userID, now); err != nil {
			return err
		}
		t.IsActive = active
		t.Touch(userID, now)
		tmpl = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Recurring template state changed",
		slog.String("template_id", templateID),
		slog.Bool("active", active))
	return tmpl, nil
}

// RunTemplate posts every occurrence of one template due on or before asOf.
func (s *journalService) RunTemplate(ctx context.Context, workplaceID, templateID string, asOf time.Time, userID string) (*domain.RecurringRunSummary, error) {
	tmpl, err := s.journalRepo.FindTemplate(ctx, workplaceID, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, &apperrors.TemplatePausedError{TemplateID: templateID}
	}
	summary := &domain.RecurringRunSummary{}
	s.runTemplateDue(ctx, tmpl, domain.DateOf(asOf), userID, summary)
	return summary, nil
}

// RunDueRecurring scans every workplace for due templates. Paused templates and
// dates already run are reported as skipped; a failure is recorded and the scan continues.
func (s *journalService) RunDueRecurring(ctx context.Context, asOf time.Time) (*domain.RecurringRunSummary, error) {
	asOf = domain.DateOf(asOf)
	due, err := s.journalRepo.ListDueTemplates(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due recurring templates")
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	summary := &domain.RecurringRunSummary{}
	for i := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		tmpl := &due[i]
		if !tmpl.IsActive {
			summary.Skipped = append(summary.Skipped, domain.RunOutcome{
				TemplateID:  tmpl.TemplateID,
				WorkplaceID: tmpl.WorkplaceID,
				RunDate:     tmpl.NextRunDate,
				Reason:      domain.SkipPaused,
			})
			s.metrics.RecurringRun("skipped")
			continue
		}
		s.runTemplateDue(ctx, tmpl, asOf, SystemActor, summary)
	}

	s.LogInfo(ctx, "Recurring scan finished",
		slog.String("as_of", asOf.Format(time.DateOnly)),
		slog.Int("posted", len(summary.Posted)),
		slog.Int("skipped", len(summary.Skipped)),
		slog.Int("failed", len(summary.Failed)))
	return summary, nil
}

type runResult int

const (
	runPosted runResult = iota
	runSkipped
	runNothingDue
)

// runTemplateDue posts the template's occurrences one transaction at a time until
// nothing is due, a run fails, or the catch-up bound is reached.
func (s *journalService) runTemplateDue(ctx context.Context, tmpl *domain.RecurringTemplate, asOf time.Time, userID string, summary *domain.RecurringRunSummary) {
	for i := 0; i < s.maxCatchUp; i++ {
		outcome, result, err := s.runOnce(ctx, tmpl.WorkplaceID, tmpl.TemplateID, asOf, userID)
		if err != nil {
			outcome.TemplateID = tmpl.TemplateID
			outcome.WorkplaceID = tmpl.WorkplaceID
			outcome.Error = err.Error()
			summary.Failed = append(summary.Failed, outcome)
			s.metrics.RecurringRun("failed")
			s.LogError(ctx, err, "Recurring run failed",
				slog.String("template_id", tmpl.TemplateID),
				slog.String("run_date", outcome.RunDate.Format(time.DateOnly)))
			return
		}
		switch result {
		case runPosted:
			summary.Posted = append(summary.Posted, outcome)
			s.metrics.RecurringRun("posted")
		case runSkipped:
			summary.Skipped = append(summary.Skipped, outcome)
			s.metrics.RecurringRun("skipped")
			if outcome.Reason == domain.SkipPaused {
				return
			}
		case runNothingDue:
			return
		}
	}
	s.LogWarn(ctx, "Recurring catch-up bound reached",
		slog.String("template_id", tmpl.TemplateID),
		slog.Int("max_catch_up", s.maxCatchUp))
}

// runOnce handles the template's next run date in its own transaction: run history
// check, amount resolution, draft, posting, run record and schedule advance.
func (s *journalService) runOnce(ctx context.Context, workplaceID, templateID string, asOf time.Time, userID string) (domain.RunOutcome, runResult, error) {
	outcome := domain.RunOutcome{TemplateID: templateID, WorkplaceID: workplaceID}
	result := runNothingDue
	var posted *domain.JournalEntry
	start := s.now()

	err := s.journalRepo.WithinTransaction(ctx, func(ctx context.Context, repo portsrepo.JournalRepositoryFacade) error {
		result = runNothingDue
		posted = nil
		tmpl, err := repo.FindTemplateForUpdate(ctx, workplaceID, templateID)
		if err != nil {
			return err
		}
		runDate := domain.DateOf(tmpl.NextRunDate)
		outcome.RunDate = runDate
		now := s.now()

		if !tmpl.IsActive {
			if tmpl.Expired(runDate) {
				return nil
			}
			outcome.Reason = domain.SkipPaused
			result = runSkipped
			return nil
		}
		if runDate.After(asOf) {
			return nil
		}
		if tmpl.Expired(runDate) {
			return repo.UpdateSchedule(ctx, templateID, runDate, false, userID, now)
		}
		next := tmpl.Frequency.Advance(runDate, tmpl.AnchorDay())

		ran, err := repo.HasRun(ctx, templateID, runDate)
		if err != nil {
			return fmt.Errorf("failed to read run history: %w", err)
		}
		if ran {
			outcome.Reason = domain.SkipAlreadyRun
			result = runSkipped
			return repo.UpdateSchedule(ctx, templateID, next, !tmpl.Expired(next), userID, now)
		}

		entry, err := s.buildRecurringEntry(ctx, repo, tmpl, runDate, userID, now)
		if err != nil {
			return err
		}
		if err := s.saveNewDraft(ctx, repo, entry); err != nil {
			return err
		}
		if err := s.postInTx(ctx, repo, entry, userID); err != nil {
			return err
		}
		if err := repo.RecordRun(ctx, domain.RecurringRun{TemplateID: templateID, RunDate: runDate, EntryID: entry.EntryID, CreatedAt: now}); err != nil {
			return fmt.Errorf("failed to record recurring run: %w", err)
		}
		if err := repo.UpdateSchedule(ctx, templateID, next, !tmpl.Expired(next), userID, now); err != nil {
			return fmt.Errorf("failed to advance schedule: %w", err)
		}
		outcome.EntryID = entry.EntryID
		posted = entry
		result = runPosted
		return nil
	})
	if err != nil {
		return outcome, runNothingDue, err
	}
	if posted != nil {
		s.metrics.EntryPosted(posted.EntryType, len(posted.Lines), s.now().Sub(start))
		s.publish(ctx, newEvent(domain.EventEntryPosted, posted, userID, *posted.PostedAt))
	}
	return outcome, result, nil
}

// buildRecurringEntry resolves each template line's amount for runDate and assembles the draft.
func (s *journalService) buildRecurringEntry(ctx context.Context, repo portsrepo.JournalRepositoryFacade, tmpl *domain.RecurringTemplate, runDate time.Time, userID string, now time.Time) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		EntryID:             uuid.NewString(),
		WorkplaceID:         tmpl.WorkplaceID,
		EntryDate:           runDate,
		EntryType:           tmpl.EntryType,
		Source:              &domain.SourceRef{Type: domain.SourceRecurring, ID: tmpl.TemplateID},
		Description:         tmpl.Name,
		Reference:           runDate.Format(time.DateOnly),
		CurrencyCode:        tmpl.CurrencyCode,
		ExchangeRate:        decimal.NewFromInt(1),
		Status:              domain.Draft,
		RecurringTemplateID: &tmpl.TemplateID,
		AuditFields:         domain.NewAuditFields(userID, now),
		Lines:               make([]domain.JournalLine, len(tmpl.Lines)),
	}
	if tmpl.Description != "" {
		entry.Description = tmpl.Name + ": " + tmpl.Description
	}

	var previous []domain.JournalLine
	for i, tl := range tmpl.Lines {
		amount, err := s.resolveAmount(ctx, repo, tmpl, tl, runDate, &previous)
		if err != nil {
			return nil, err
		}
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			LineNumber:  tl.LineNumber,
			AccountID:   tl.AccountID,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Description: tl.Description,
			LineTags:    tl.LineTags,
		}
		if tl.Side == domain.DebitSide {
			line.Debit = amount
		} else {
			line.Credit = amount
		}
		entry.Lines[i] = line
	}
	entry.RecomputeTotals()
	return entry, nil
}

// resolveAmount applies the line's amount strategy. previous caches the lines of the
// template's last run across calls for one entry.
func (s *journalService) resolveAmount(ctx context.Context, repo portsrepo.JournalRepositoryFacade, tmpl *domain.RecurringTemplate, tl domain.TemplateLine, runDate time.Time, previous *[]domain.JournalLine) (decimal.Decimal, error) {
	switch tl.Strategy {
	case domain.StrategyPercentOfBalance:
		if tl.Percent == nil || tl.BasisAccountID == nil {
			return decimal.Zero, apperrors.NewValidationError("lines", "line %d lacks percent or basis account", tl.LineNumber)
		}
		accounts, err := repo.FindAccountsByIDs(ctx, tmpl.WorkplaceID, []string{*tl.BasisAccountID})
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load basis account: %w", err)
		}
		basis, ok := accounts[*tl.BasisAccountID]
		if !ok {
			return decimal.Zero, apperrors.NewValidationError("basisAccountID", "account %s not found in workplace", *tl.BasisAccountID)
		}
		totals, err := repo.SumLedger(ctx, tmpl.WorkplaceID, basis.AccountID, runDate)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to compute basis balance: %w", err)
		}
		balance := totals.Balance(accounting.NormalBalanceOf(basis))
		return balance.Mul(*tl.Percent).Div(hundred).Abs().RoundBank(domain.AmountScale), nil

	case domain.StrategyCopyLastRun:
		if *previous == nil {
			last, err := repo.LastRun(ctx, tmpl.TemplateID, runDate)
			if err != nil {
				return decimal.Zero, fmt.Errorf("failed to read last run: %w", err)
			}
			if last == nil {
				return tl.Amount, nil
			}
			lines, err := repo.FindLines(ctx, last.EntryID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return decimal.Zero, fmt.Errorf("failed to load last run lines: %w", err)
			}
			*previous = lines
		}
		for _, l := range *previous {
			if l.LineNumber == tl.LineNumber {
				return l.Debit.Add(l.Credit), nil
			}
		}
		return tl.Amount, nil

	default:
		return tl.Amount, nil
	}
}
