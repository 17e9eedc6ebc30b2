package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/models"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `template_id, workplace_id, name, description, currency_code, entry_type, frequency,
	start_date, end_date, next_run_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `template_id, line_number, account_id, side, strategy, amount, percent,
	basis_account_id, description, cost_center, project, department`

func toDomainTemplate(m models.RecurringTemplate) domain.RecurringTemplate {
	t := domain.RecurringTemplate{
		TemplateID:   m.TemplateID,
		WorkplaceID:  m.WorkplaceID,
		Name:         m.Name,
		Description:  m.Description,
		CurrencyCode: m.CurrencyCode,
		EntryType:    domain.EntryType(m.EntryType),
		Frequency:    domain.Frequency(m.Frequency),
		StartDate:    domain.DateOf(m.StartDate),
		NextRunDate:  domain.DateOf(m.NextRunDate),
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.EndDate != nil {
		end := domain.DateOf(*m.EndDate)
		t.EndDate = &end
	}
	return t
}

func toDomainTemplateLine(m models.RecurringTemplateLine) domain.TemplateLine {
	return domain.TemplateLine{
		LineNumber:     m.LineNumber,
		AccountID:      m.AccountID,
		Side:           domain.Side(m.Side),
		Strategy:       domain.AmountStrategy(m.Strategy),
		Amount:         m.Amount,
		Percent:        decimalPtr(m.Percent),
		BasisAccountID: m.BasisAccountID,
		Description:    m.Description,
		LineTags: domain.LineTags{
			CostCenter: m.CostCenter,
			Project:    m.Project,
			Department: m.Department,
		},
	}
}

func (r *PgxJournalRepository) findTemplate(ctx context.Context, workplaceID, templateID, suffix string) (*domain.RecurringTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM recurring_templates
		WHERE template_id = $1 AND workplace_id = $2`+suffix, templateID, workplaceID)
	if err != nil {
		return nil, mapError(err, "recurring template "+templateID, "failed to query recurring template "+templateID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, mapError(err, "recurring template "+templateID, "failed to scan recurring template "+templateID)
	}
	t := toDomainTemplate(m)
	if t.Lines, err = r.templateLines(ctx, templateID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxJournalRepository) templateLines(ctx context.Context, templateID string) ([]domain.TemplateLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+templateLineColumns+` FROM recurring_template_lines
		WHERE template_id = $1 ORDER BY line_number`, templateID)
	if err != nil {
		return nil, mapError(err, "template lines of "+templateID, "failed to query template lines")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplateLine])
	if err != nil {
		return nil, mapError(err, "template lines of "+templateID, "failed to scan template lines")
	}
	lines := make([]domain.TemplateLine, len(ms))
	for i, m := range ms {
		lines[i] = toDomainTemplateLine(m)
	}
	return lines, nil
}

// FindTemplate retrieves a template with its lines.
func (r *PgxJournalRepository) FindTemplate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	return r.findTemplate(ctx, workplaceID, templateID, "")
}

// FindTemplateForUpdate locks the template row so concurrent scans run each date once.
func (r *PgxJournalRepository) FindTemplateForUpdate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	return r.findTemplate(ctx, workplaceID, templateID, " FOR UPDATE")
}

// ListTemplates lists a workplace's templates by name with their lines.
func (r *PgxJournalRepository) ListTemplates(ctx context.Context, workplaceID string, includeInactive bool) ([]domain.RecurringTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM recurring_templates
		WHERE workplace_id = $1 AND ($2 OR is_active)
		ORDER BY name, template_id`, workplaceID, includeInactive)
	if err != nil {
		return nil, mapError(err, "recurring templates", "failed to list recurring templates")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, mapError(err, "recurring templates", "failed to scan recurring templates")
	}
	res := make([]domain.RecurringTemplate, len(ms))
	for i, m := range ms {
		res[i] = toDomainTemplate(m)
		if res[i].Lines, err = r.templateLines(ctx, m.TemplateID); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ListDueTemplates lists templates of every workplace whose next run is on or before
// asOf and within their end date, paused ones included. Lines are not loaded.
func (r *PgxJournalRepository) ListDueTemplates(ctx context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM recurring_templates
		WHERE next_run_date <= $1 AND (end_date IS NULL OR next_run_date <= end_date)
		ORDER BY next_run_date, template_id`, domain.DateOf(asOf))
	if err != nil {
		return nil, mapError(err, "recurring templates", "failed to list due recurring templates")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, mapError(err, "recurring templates", "failed to scan due recurring templates")
	}
	res := make([]domain.RecurringTemplate, len(ms))
	for i, m := range ms {
		res[i] = toDomainTemplate(m)
	}
	return res, nil
}

// HasRun reports whether the template already produced an entry for runDate.
func (r *PgxJournalRepository) HasRun(ctx context.Context, templateID string, runDate time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recurring_runs WHERE template_id = $1 AND run_date = $2)`,
		templateID, domain.DateOf(runDate)).Scan(&exists)
	if err != nil {
		return false, mapError(err, "recurring runs", "failed to read run history")
	}
	return exists, nil
}

// LastRun returns the template's latest run strictly before the given date, or nil.
func (r *PgxJournalRepository) LastRun(ctx context.Context, templateID string, before time.Time) (*domain.RecurringRun, error) {
	rows, err := r.q.Query(ctx, `SELECT template_id, run_date, entry_id, created_at FROM recurring_runs
		WHERE template_id = $1 AND run_date < $2
		ORDER BY run_date DESC
		LIMIT 1`, templateID, domain.DateOf(before))
	if err != nil {
		return nil, mapError(err, "recurring runs", "failed to query last run")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringRun])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "recurring runs", "failed to scan last run")
	}
	return &domain.RecurringRun{
		TemplateID: m.TemplateID,
		RunDate:    domain.DateOf(m.RunDate),
		EntryID:    m.EntryID,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// SaveTemplate inserts a template and its lines.
func (r *PgxJournalRepository) SaveTemplate(ctx context.Context, t domain.RecurringTemplate) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO recurring_templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.TemplateID, t.WorkplaceID, t.Name, t.Description, t.CurrencyCode, string(t.EntryType), string(t.Frequency),
		t.StartDate, t.EndDate, t.NextRunDate, t.IsActive, t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy,
	)
	for _, l := range t.Lines {
		batch.Queue(`INSERT INTO recurring_template_lines (`+templateLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			t.TemplateID, l.LineNumber, l.AccountID, string(l.Side), string(l.Strategy), l.Amount, nullDecimal(l.Percent),
			l.BasisAccountID, l.Description, l.CostCenter, l.Project, l.Department,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "recurring template "+t.TemplateID, "failed to insert recurring template "+t.TemplateID)
	}
	return nil
}

// UpdateSchedule moves the template's next run date and sets its active flag.
func (r *PgxJournalRepository) UpdateSchedule(ctx context.Context, templateID string, nextRunDate time.Time, isActive bool, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE recurring_templates
		SET next_run_date = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE template_id = $1`, templateID, domain.DateOf(nextRunDate), isActive, at, userID)
	if err != nil {
		return mapError(err, "recurring template "+templateID, "failed to update schedule of "+templateID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring template " + templateID + " not found")
	}
	return nil
}

// SetTemplateActive pauses or resumes a template.
func (r *PgxJournalRepository) SetTemplateActive(ctx context.Context, workplaceID, templateID string, active bool, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE recurring_templates
		SET is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE template_id = $1 AND workplace_id = $2`, templateID, workplaceID, active, at, userID)
	if err != nil {
		return mapError(err, "recurring template "+templateID, "failed to update recurring template "+templateID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring template " + templateID + " not found")
	}
	return nil
}

// RecordRun stores the run. A second run for the same date violates the primary key.
func (r *PgxJournalRepository) RecordRun(ctx context.Context, run domain.RecurringRun) error {
	_, err := r.q.Exec(ctx, `INSERT INTO recurring_runs (template_id, run_date, entry_id, created_at)
		VALUES ($1, $2, $3, $4)`, run.TemplateID, domain.DateOf(run.RunDate), run.EntryID, run.CreatedAt)
	if err != nil {
		return mapError(err, "recurring run", "failed to record run of "+run.TemplateID+" on "+run.RunDate.Format(time.DateOnly))
	}
	return nil
}
