package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries. Lines live in their own table.
type JournalEntry struct {
	EntryID             string          `db:"entry_id"`
	WorkplaceID         string          `db:"workplace_id"`
	EntryNumber         int64           `db:"entry_number"`
	EntryDate           time.Time       `db:"entry_date"`
	FiscalPeriodID      *string         `db:"fiscal_period_id"`
	EntryType           string          `db:"entry_type"`
	SourceType          *string         `db:"source_type"`
	SourceID            *string         `db:"source_id"`
	Description         string          `db:"description"`
	Reference           string          `db:"reference"`
	CurrencyCode        string          `db:"currency_code"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate"`
	TotalDebit          decimal.Decimal `db:"total_debit"`
	TotalCredit         decimal.Decimal `db:"total_credit"`
	Status              string          `db:"status"`
	PostedAt            *time.Time      `db:"posted_at"`
	PostedBy            *string         `db:"posted_by"`
	ReversalOfID        *string         `db:"reversal_of_id"`
	ReversedByID        *string         `db:"reversed_by_id"`
	RecurringTemplateID *string         `db:"recurring_template_id"`
	AuditFields
}

// JournalLine is a row of journal_lines.
type JournalLine struct {
	LineID              string              `db:"line_id"`
	EntryID             string              `db:"entry_id"`
	LineNumber          int                 `db:"line_number"`
	AccountID           string              `db:"account_id"`
	Debit               decimal.Decimal     `db:"debit"`
	Credit              decimal.Decimal     `db:"credit"`
	ForeignCurrencyCode *string             `db:"foreign_currency_code"`
	ForeignAmount       decimal.NullDecimal `db:"foreign_amount"`
	ExchangeRate        decimal.NullDecimal `db:"exchange_rate"`
	TaxCode             *string             `db:"tax_code"`
	TaxAmount           decimal.NullDecimal `db:"tax_amount"`
	CostCenter          *string             `db:"cost_center"`
	Project             *string             `db:"project"`
	Department          *string             `db:"department"`
	Description         string              `db:"description"`
}
