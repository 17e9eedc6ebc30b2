package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is the immutable per-account projection of one posted line.
type LedgerRow struct {
	RowID          string          `json:"rowID"`
	Sequence       int64           `json:"sequence"` // assigned by the store, increases in posting order
	WorkplaceID    string          `json:"workplaceID"`
	AccountID      string          `json:"accountID"`
	EntryID        string          `json:"entryID"`
	LineID         string          `json:"lineID"`
	FiscalPeriodID string          `json:"fiscalPeriodID"`
	EntryDate      time.Time       `json:"entryDate"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	SourceType     *string         `json:"sourceType,omitempty"`
	SourceID       *string         `json:"sourceID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SignedAmount returns the row's effect on the account balance.
func (r LedgerRow) SignedAmount(normal NormalBalance) decimal.Decimal {
	if normal == NormalDebit {
		return r.Debit.Sub(r.Credit)
	}
	return r.Credit.Sub(r.Debit)
}

// LedgerTotals are the summed debits and credits of an account's rows.
type LedgerTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance returns the totals netted in the account's normal-balance convention.
func (t LedgerTotals) Balance(normal NormalBalance) decimal.Decimal {
	return LedgerRow{Debit: t.Debit, Credit: t.Credit}.SignedAmount(normal)
}
