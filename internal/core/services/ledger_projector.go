package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/utils/accounting"
	"github.com/SscSPs/journal_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxLedgerPage = 500

// projectLedgerRows turns the lines of an entry being posted into ledger rows.
// opening holds each account's latest running balance; accounts without rows start at zero.
func projectLedgerRows(entry *domain.JournalEntry, accounts map[string]domain.Account, opening map[string]decimal.Decimal, periodID string, now time.Time) ([]domain.LedgerRow, error) {
	running := make(map[string]decimal.Decimal, len(accounts))
	for id := range accounts {
		running[id] = opening[id]
	}

	var sourceType, sourceID *string
	if entry.Source != nil {
		t, id := string(entry.Source.Type), entry.Source.ID
		sourceType, sourceID = &t, &id
	}

	rows := make([]domain.LedgerRow, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, &apperrors.InvariantViolationError{EntryID: entry.EntryID, Detail: "account " + line.AccountID + " vanished during posting"}
		}
		signed, err := accounting.CalculateSignedAmount(line, account)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("lines[%d]", line.LineNumber-1), err.Error())
		}
		balance := running[line.AccountID].Add(signed)
		running[line.AccountID] = balance

		description := line.Description
		if description == "" {
			description = entry.Description
		}
		rows = append(rows, domain.LedgerRow{
			RowID:          uuid.NewString(),
			WorkplaceID:    entry.WorkplaceID,
			AccountID:      line.AccountID,
			EntryID:        entry.EntryID,
			LineID:         line.LineID,
			FiscalPeriodID: periodID,
			EntryDate:      entry.EntryDate,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: balance,
			Description:    description,
			Reference:      entry.Reference,
			SourceType:     sourceType,
			SourceID:       sourceID,
			CreatedAt:      now,
		})
	}
	return rows, nil
}

// AccountBalance sums ledger rows dated on or before asOf in the account's normal-balance convention.
func (s *journalService) AccountBalance(ctx context.Context, workplaceID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	if asOf.IsZero() {
		asOf = s.today()
	}
	account, err := s.findAccount(ctx, workplaceID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	totals, err := s.journalRepo.SumLedger(ctx, workplaceID, accountID, domain.DateOf(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger", "account_id", accountID)
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}
	return totals.Balance(accounting.NormalBalanceOf(*account)), nil
}

// ListLedgerRows returns a page of an account's ledger rows in posting order.
func (s *journalService) ListLedgerRows(ctx context.Context, workplaceID, accountID string, params dto.ListLedgerRowsParams) (*dto.ListLedgerRowsResponse, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	if _, err := s.findAccount(ctx, workplaceID, accountID); err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit, maxLedgerPage)
	rows, next, err := s.journalRepo.ListLedgerRows(ctx, workplaceID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.LedgerRow{}
	}
	return &dto.ListLedgerRowsResponse{Rows: rows, NextToken: next}, nil
}

func (s *journalService) findAccount(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	accounts, err := s.journalRepo.FindAccountsByIDs(ctx, workplaceID, []string{accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	account, ok := accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return &account, nil
}
