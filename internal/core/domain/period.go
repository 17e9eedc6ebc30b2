package domain

import "time"

// PeriodStatus is the posting state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FiscalPeriod is the calendar view of one accounting period. Bounds are inclusive dates.
type FiscalPeriod struct {
	PeriodID           string       `json:"periodID"`
	WorkplaceID        string       `json:"workplaceID"`
	FiscalYear         int          `json:"fiscalYear"`
	Name               string       `json:"name"`
	StartDate          time.Time    `json:"startDate"`
	EndDate            time.Time    `json:"endDate"`
	Status             PeriodStatus `json:"status"`
	AdjustmentsAllowed bool         `json:"adjustmentsAllowed"`
}

// Covers reports whether date falls inside the period.
func (p FiscalPeriod) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(p.StartDate)) && !d.After(DateOf(p.EndDate))
}
