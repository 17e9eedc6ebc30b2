package dto

import (
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SourceRefRequest identifies the business document behind an entry.
type SourceRefRequest struct {
	Type string `json:"type" validate:"required,oneof=MANUAL INVOICE BILL PAYMENT RECURRING REVERSAL"`
	ID   string `json:"id" validate:"required"`
}

// CreateEntryLineRequest is one proposed line of a draft entry.
// Exactly one of Debit and Credit carries the amount.
type CreateEntryLineRequest struct {
	AccountID           string           `json:"accountID" validate:"required"`
	Debit               decimal.Decimal  `json:"debit"`
	Credit              decimal.Decimal  `json:"credit"`
	ForeignCurrencyCode *string          `json:"foreignCurrencyCode" validate:"omitempty,iso4217"`
	ForeignAmount       *decimal.Decimal `json:"foreignAmount"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate"`
	TaxCode             *string          `json:"taxCode" validate:"omitempty,max=32"`
	TaxAmount           *decimal.Decimal `json:"taxAmount"`
	CostCenter          *string          `json:"costCenter" validate:"omitempty,max=64"`
	Project             *string          `json:"project" validate:"omitempty,max=64"`
	Department          *string          `json:"department" validate:"omitempty,max=64"`
	Description         string           `json:"description" validate:"max=500"`
}

// CreateEntryRequest defines the data needed to build a draft journal entry.
type CreateEntryRequest struct {
	EntryDate    time.Time                `json:"entryDate" validate:"required"`
	EntryType    domain.EntryType         `json:"entryType" validate:"omitempty,oneof=STANDARD ADJUSTING CLOSING REVERSING RECURRING"`
	Description  string                   `json:"description" validate:"max=500"`
	Reference    string                   `json:"reference" validate:"max=100"`
	CurrencyCode string                   `json:"currencyCode" validate:"required,iso4217"`
	ExchangeRate *decimal.Decimal         `json:"exchangeRate"`
	Source       *SourceRefRequest        `json:"source" validate:"omitempty"`
	ForPosting   bool                     `json:"forPosting"` // reject zero placeholder lines up front
	Lines        []CreateEntryLineRequest `json:"lines" validate:"required,dive"`
}

// ReverseEntryRequest optionally pins the reversal date. Today is used when omitted.
type ReverseEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Status    string  `form:"status" validate:"omitempty,oneof=DRAFT POSTED REVERSED VOIDED"`
	Limit     int     `form:"limit,default=20" validate:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID              string           `json:"lineID"`
	LineNumber          int              `json:"lineNumber"`
	AccountID           string           `json:"accountID"`
	Debit               decimal.Decimal  `json:"debit"`
	Credit              decimal.Decimal  `json:"credit"`
	ForeignCurrencyCode *string          `json:"foreignCurrencyCode,omitempty"`
	ForeignAmount       *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate,omitempty"`
	TaxCode             *string          `json:"taxCode,omitempty"`
	TaxAmount           *decimal.Decimal `json:"taxAmount,omitempty"`
	CostCenter          *string          `json:"costCenter,omitempty"`
	Project             *string          `json:"project,omitempty"`
	Department          *string          `json:"department,omitempty"`
	Description         string           `json:"description"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID             string              `json:"entryID"`
	WorkplaceID         string              `json:"workplaceID"`
	EntryNumber         int64               `json:"entryNumber"`
	EntryDate           time.Time           `json:"entryDate"`
	FiscalPeriodID      *string             `json:"fiscalPeriodID,omitempty"`
	EntryType           domain.EntryType    `json:"entryType"`
	Source              *domain.SourceRef   `json:"source,omitempty"`
	Description         string              `json:"description"`
	Reference           string              `json:"reference"`
	CurrencyCode        string              `json:"currencyCode"`
	ExchangeRate        decimal.Decimal     `json:"exchangeRate"`
	TotalDebit          decimal.Decimal     `json:"totalDebit"`
	TotalCredit         decimal.Decimal     `json:"totalCredit"`
	Status              domain.EntryStatus  `json:"status"`
	PostedAt            *time.Time          `json:"postedAt,omitempty"`
	PostedBy            *string             `json:"postedBy,omitempty"`
	ReversalOfID        *string             `json:"reversalOfID,omitempty"`
	ReversedByID        *string             `json:"reversedByID,omitempty"`
	RecurringTemplateID *string             `json:"recurringTemplateID,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	CreatedBy           string              `json:"createdBy"`
	LastUpdatedAt       time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy       string              `json:"lastUpdatedBy"`
	Lines               []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalLine to its DTO.
func ToEntryLineResponse(l *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:              l.LineID,
		LineNumber:          l.LineNumber,
		AccountID:           l.AccountID,
		Debit:               l.Debit,
		Credit:              l.Credit,
		ForeignCurrencyCode: l.ForeignCurrencyCode,
		ForeignAmount:       l.ForeignAmount,
		ExchangeRate:        l.ExchangeRate,
		TaxCode:             l.TaxCode,
		TaxAmount:           l.TaxAmount,
		CostCenter:          l.CostCenter,
		Project:             l.Project,
		Department:          l.Department,
		Description:         l.Description,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:             e.EntryID,
		WorkplaceID:         e.WorkplaceID,
		EntryNumber:         e.EntryNumber,
		EntryDate:           e.EntryDate,
		FiscalPeriodID:      e.FiscalPeriodID,
		EntryType:           e.EntryType,
		Source:              e.Source,
		Description:         e.Description,
		Reference:           e.Reference,
		CurrencyCode:        e.CurrencyCode,
		ExchangeRate:        e.ExchangeRate,
		TotalDebit:          e.TotalDebit,
		TotalCredit:         e.TotalCredit,
		Status:              e.Status,
		PostedAt:            e.PostedAt,
		PostedBy:            e.PostedBy,
		ReversalOfID:        e.ReversalOfID,
		ReversedByID:        e.ReversedByID,
		RecurringTemplateID: e.RecurringTemplateID,
		CreatedAt:           e.CreatedAt,
		CreatedBy:           e.CreatedBy,
		LastUpdatedAt:       e.LastUpdatedAt,
		LastUpdatedBy:       e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToListEntriesResponse converts a page of entries.
func ToListEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListEntriesResponse {
	res := ListEntriesResponse{Entries: make([]EntryResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		res.Entries[i] = ToEntryResponse(&entries[i])
	}
	return res
}
