package dto

import (
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceParams defines query parameters for a balance lookup.
type AccountBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListLedgerRowsParams defines query parameters for paging an account's ledger.
type ListLedgerRowsParams struct {
	Limit     int     `form:"limit,default=20" validate:"min=0,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerRowsResponse wraps a page of ledger rows.
type ListLedgerRowsResponse struct {
	Rows      []domain.LedgerRow `json:"rows"`
	NextToken *string            `json:"nextToken,omitempty"`
}
