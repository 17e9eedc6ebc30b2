package dto

import (
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TemplateLineRequest is one line of a recurring template.
type TemplateLineRequest struct {
	AccountID      string                `json:"accountID" validate:"required"`
	Side           domain.Side           `json:"side" validate:"required,oneof=DEBIT CREDIT"`
	Strategy       domain.AmountStrategy `json:"strategy" validate:"omitempty,oneof=FIXED PERCENT_OF_BALANCE COPY_LAST_RUN"`
	Amount         decimal.Decimal       `json:"amount"`
	Percent        *decimal.Decimal      `json:"percent"`
	BasisAccountID *string               `json:"basisAccountID"`
	Description    string                `json:"description" validate:"max=500"`
	CostCenter     *string               `json:"costCenter" validate:"omitempty,max=64"`
	Project        *string               `json:"project" validate:"omitempty,max=64"`
	Department     *string               `json:"department" validate:"omitempty,max=64"`
}

// CreateTemplateRequest defines the data needed to create a recurring template.
type CreateTemplateRequest struct {
	Name         string                `json:"name" validate:"required,max=200"`
	Description  string                `json:"description" validate:"max=500"`
	CurrencyCode string                `json:"currencyCode" validate:"required,iso4217"`
	EntryType    domain.EntryType      `json:"entryType" validate:"omitempty,oneof=STANDARD ADJUSTING RECURRING"`
	Frequency    domain.Frequency      `json:"frequency" validate:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	StartDate    time.Time             `json:"startDate" validate:"required"`
	EndDate      *time.Time            `json:"endDate"`
	Lines        []TemplateLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// ListTemplatesParams defines query parameters for listing templates.
type ListTemplatesParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// RunRecurringRequest carries the as-of date for a recurring run.
type RunRecurringRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// TemplateResponse defines the data returned for a recurring template.
type TemplateResponse struct {
	domain.RecurringTemplate
}

// ToTemplateResponse converts a domain.RecurringTemplate to its DTO.
func ToTemplateResponse(t *domain.RecurringTemplate) TemplateResponse {
	return TemplateResponse{RecurringTemplate: *t}
}

// ToListTemplatesResponse converts a slice of templates.
func ToListTemplatesResponse(ts []domain.RecurringTemplate) []TemplateResponse {
	res := make([]TemplateResponse, len(ts))
	for i := range ts {
		res[i] = ToTemplateResponse(&ts[i])
	}
	return res
}
