package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTemplate is a row of recurring_templates.
type RecurringTemplate struct {
	TemplateID   string     `db:"template_id"`
	WorkplaceID  string     `db:"workplace_id"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	CurrencyCode string     `db:"currency_code"`
	EntryType    string     `db:"entry_type"`
	Frequency    string     `db:"frequency"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	NextRunDate  time.Time  `db:"next_run_date"`
	IsActive     bool       `db:"is_active"`
	AuditFields
}

// RecurringTemplateLine is a row of recurring_template_lines.
type RecurringTemplateLine struct {
	TemplateID     string              `db:"template_id"`
	LineNumber     int                 `db:"line_number"`
	AccountID      string              `db:"account_id"`
	Side           string              `db:"side"`
	Strategy       string              `db:"strategy"`
	Amount         decimal.Decimal     `db:"amount"`
	Percent        decimal.NullDecimal `db:"percent"`
	BasisAccountID *string             `db:"basis_account_id"`
	Description    string              `db:"description"`
	CostCenter     *string             `db:"cost_center"`
	Project        *string             `db:"project"`
	Department     *string             `db:"department"`
}

// RecurringRun is a row of recurring_runs.
type RecurringRun struct {
	TemplateID string    `db:"template_id"`
	RunDate    time.Time `db:"run_date"`
	EntryID    string    `db:"entry_id"`
	CreatedAt  time.Time `db:"created_at"`
}
