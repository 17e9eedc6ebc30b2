package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
	Voided   EntryStatus = "VOIDED"
)

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Posted || next == Voided
	case Posted:
		return next == Reversed
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s EntryStatus) IsTerminal() bool {
	return s == Reversed || s == Voided
}

// EntryType classifies why an entry exists.
type EntryType string

const (
	EntryStandard  EntryType = "STANDARD"
	EntryAdjusting EntryType = "ADJUSTING"
	EntryClosing   EntryType = "CLOSING"
	EntryReversing EntryType = "REVERSING"
	EntryRecurring EntryType = "RECURRING"
)

// SourceType names the kind of business document an entry originated from.
type SourceType string

const (
	SourceManual    SourceType = "MANUAL"
	SourceInvoice   SourceType = "INVOICE"
	SourceBill      SourceType = "BILL"
	SourcePayment   SourceType = "PAYMENT"
	SourceRecurring SourceType = "RECURRING"
	SourceReversal  SourceType = "REVERSAL"
)

// SourceRef identifies the originating document. It is stored and echoed, never followed.
type SourceRef struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

// JournalEntry is a dated accounting event made of two or more lines.
type JournalEntry struct {
	EntryID             string          `json:"entryID"`
	WorkplaceID         string          `json:"workplaceID"`
	EntryNumber         int64           `json:"entryNumber"`
	EntryDate           time.Time       `json:"entryDate"`
	FiscalPeriodID      *string         `json:"fiscalPeriodID,omitempty"`
	EntryType           EntryType       `json:"entryType"`
	Source              *SourceRef      `json:"source,omitempty"`
	Description         string          `json:"description"`
	Reference           string          `json:"reference"`
	CurrencyCode        string          `json:"currencyCode"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
	TotalDebit          decimal.Decimal `json:"totalDebit"`
	TotalCredit         decimal.Decimal `json:"totalCredit"`
	Status              EntryStatus     `json:"status"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
	PostedBy            *string         `json:"postedBy,omitempty"`
	ReversalOfID        *string         `json:"reversalOfID,omitempty"`
	ReversedByID        *string         `json:"reversedByID,omitempty"`
	RecurringTemplateID *string         `json:"recurringTemplateID,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"`
}

// RecomputeTotals sums the lines into TotalDebit and TotalCredit.
func (e *JournalEntry) RecomputeTotals() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	e.TotalDebit = debit
	e.TotalCredit = credit
}

// AccountIDs returns the distinct account ids referenced by the lines, in line order.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// LineTags are optional analytic dimensions carried by a line.
type LineTags struct {
	CostCenter *string `json:"costCenter,omitempty"`
	Project    *string `json:"project,omitempty"`
	Department *string `json:"department,omitempty"`
}

// JournalLine is one debit or credit to one account.
type JournalLine struct {
	LineID              string           `json:"lineID"`
	EntryID             string           `json:"entryID"`
	LineNumber          int              `json:"lineNumber"`
	AccountID           string           `json:"accountID"`
	Debit               decimal.Decimal  `json:"debit"`
	Credit              decimal.Decimal  `json:"credit"`
	ForeignCurrencyCode *string          `json:"foreignCurrencyCode,omitempty"`
	ForeignAmount       *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate,omitempty"`
	TaxCode             *string          `json:"taxCode,omitempty"`
	TaxAmount           *decimal.Decimal `json:"taxAmount,omitempty"`
	Description         string           `json:"description"`
	LineTags
}

// Side returns the side carrying the amount. Placeholder lines report ok=false.
func (l JournalLine) Side() (side Side, amount decimal.Decimal, ok bool) {
	switch {
	case l.Debit.IsPositive() && l.Credit.IsZero():
		return DebitSide, l.Debit, true
	case l.Credit.IsPositive() && l.Debit.IsZero():
		return CreditSide, l.Credit, true
	default:
		return "", decimal.Zero, false
	}
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// Side indicates whether an amount is a debit or a credit.
type Side string

const (
	DebitSide  Side = "DEBIT"
	CreditSide Side = "CREDIT"
)

// SignedAmount returns amount signed by the account's normal balance:
// positive when side matches the normal balance, negative otherwise.
func SignedAmount(side Side, amount decimal.Decimal, normal NormalBalance) decimal.Decimal {
	if string(side) == string(normal) {
		return amount
	}
	return amount.Neg()
}
