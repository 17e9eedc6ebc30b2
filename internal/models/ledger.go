package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is a row of the append-only ledger_rows table.
type LedgerRow struct {
	RowID          string          `db:"row_id"`
	Sequence       int64           `db:"sequence"`
	WorkplaceID    string          `db:"workplace_id"`
	AccountID      string          `db:"account_id"`
	EntryID        string          `db:"entry_id"`
	LineID         string          `db:"line_id"`
	FiscalPeriodID string          `db:"fiscal_period_id"`
	EntryDate      time.Time       `db:"entry_date"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	Description    string          `db:"description"`
	Reference      string          `db:"reference"`
	SourceType     *string         `db:"source_type"`
	SourceID       *string         `db:"source_id"`
	CreatedAt      time.Time       `db:"created_at"`
}
