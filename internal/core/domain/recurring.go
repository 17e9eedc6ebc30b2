package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring template produces an entry.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Advance returns the run date following from. Month-based frequencies keep the
// anchor day of month, clamped to the last day of shorter months, so a template
// anchored on the 31st runs on Jan 31, Feb 28, Mar 31.
func (f Frequency) Advance(from time.Time, anchorDay int) time.Time {
	from = DateOf(from)
	switch f {
	case Daily:
		return from.AddDate(0, 0, 1)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return addMonthsClamped(from, 1, anchorDay)
	case Quarterly:
		return addMonthsClamped(from, 3, anchorDay)
	case Yearly:
		return addMonthsClamped(from, 12, anchorDay)
	}
	return from
}

func addMonthsClamped(from time.Time, months, anchorDay int) time.Time {
	// first of the target month, then clamp the anchor day
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := anchorDay
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AmountStrategy decides how a template line's amount is resolved at run time.
type AmountStrategy string

const (
	StrategyFixed            AmountStrategy = "FIXED"
	StrategyPercentOfBalance AmountStrategy = "PERCENT_OF_BALANCE"
	StrategyCopyLastRun      AmountStrategy = "COPY_LAST_RUN"
)

// TemplateLine is one line of a recurring template.
type TemplateLine struct {
	LineNumber     int              `json:"lineNumber"`
	AccountID      string           `json:"accountID"`
	Side           Side             `json:"side"`
	Strategy       AmountStrategy   `json:"strategy"`
	Amount         decimal.Decimal  `json:"amount"`
	Percent        *decimal.Decimal `json:"percent,omitempty"`
	BasisAccountID *string          `json:"basisAccountID,omitempty"`
	Description    string           `json:"description"`
	LineTags
}

// RecurringTemplate produces an entry on every scheduled run date.
type RecurringTemplate struct {
	TemplateID   string     `json:"templateID"`
	WorkplaceID  string     `json:"workplaceID"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode"`
	EntryType    EntryType  `json:"entryType"`
	Frequency    Frequency  `json:"frequency"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	NextRunDate  time.Time  `json:"nextRunDate"`
	IsActive     bool       `json:"isActive"`
	AuditFields
	Lines []TemplateLine `json:"lines,omitempty"`
}

// AnchorDay is the day of month the schedule is pinned to.
func (t RecurringTemplate) AnchorDay() int {
	return t.StartDate.Day()
}

// Expired reports whether date is past the template's end date.
func (t RecurringTemplate) Expired(date time.Time) bool {
	return t.EndDate != nil && DateOf(date).After(DateOf(*t.EndDate))
}

// RecurringRun records that a template produced an entry for a run date.
type RecurringRun struct {
	TemplateID string    `json:"templateID"`
	RunDate    time.Time `json:"runDate"`
	EntryID    string    `json:"entryID"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SkipReason explains why a due template produced nothing.
type SkipReason string

const (
	SkipPaused     SkipReason = "paused"
	SkipAlreadyRun SkipReason = "already_run"
)

// RunOutcome is one template/date result of a recurring scan.
type RunOutcome struct {
	TemplateID  string     `json:"templateID"`
	WorkplaceID string     `json:"workplaceID"`
	RunDate     time.Time  `json:"runDate"`
	EntryID     string     `json:"entryID,omitempty"`
	Reason      SkipReason `json:"reason,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// RecurringRunSummary groups the outcomes of a recurring scan.
type RecurringRunSummary struct {
	Posted  []RunOutcome `json:"posted"`
	Skipped []RunOutcome `json:"skipped"`
	Failed  []RunOutcome `json:"failed"`
}
