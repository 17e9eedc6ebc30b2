package models

import "time"

// Account is a row of the accounts table as the engine reads it.
type Account struct {
	AccountID     string `db:"account_id"`
	WorkplaceID   string `db:"workplace_id"`
	Code          string `db:"code"`
	Name          string `db:"name"`
	AccountType   string `db:"account_type"`
	NormalBalance string `db:"normal_balance"`
	IsActive      bool   `db:"is_active"`
}

// FiscalPeriod is a row of the fiscal_periods table.
type FiscalPeriod struct {
	PeriodID           string    `db:"period_id"`
	WorkplaceID        string    `db:"workplace_id"`
	FiscalYear         int       `db:"fiscal_year"`
	Name               string    `db:"name"`
	StartDate          time.Time `db:"start_date"`
	EndDate            time.Time `db:"end_date"`
	Status             string    `db:"status"`
	AdjustmentsAllowed bool      `db:"adjustments_allowed"`
}
