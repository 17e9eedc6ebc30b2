package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/models"
	"github.com/jackc/pgx/v5"
)

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		WorkplaceID:   m.WorkplaceID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		IsActive:      m.IsActive,
	}
}

func toDomainPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:           m.PeriodID,
		WorkplaceID:        m.WorkplaceID,
		FiscalYear:         m.FiscalYear,
		Name:               m.Name,
		StartDate:          domain.DateOf(m.StartDate),
		EndDate:            domain.DateOf(m.EndDate),
		Status:             domain.PeriodStatus(m.Status),
		AdjustmentsAllowed: m.AdjustmentsAllowed,
	}
}

// FindAccountsByIDs returns the workplace's accounts among ids, keyed by id.
// Missing ids are simply absent from the map.
func (r *PgxJournalRepository) FindAccountsByIDs(ctx context.Context, workplaceID string, ids []string) (map[string]domain.Account, error) {
	if len(ids) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT account_id, workplace_id, code, name, account_type, normal_balance, is_active
		FROM accounts
		WHERE workplace_id = $1 AND account_id = ANY($2)`, workplaceID, ids)
	if err != nil {
		return nil, mapError(err, "accounts", "failed to query accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "accounts", "failed to scan accounts")
	}
	res := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		res[m.AccountID] = toDomainAccount(m)
	}
	return res, nil
}

// FindPeriodByDate returns the workplace's fiscal period covering date.
func (r *PgxJournalRepository) FindPeriodByDate(ctx context.Context, workplaceID string, date time.Time) (*domain.FiscalPeriod, error) {
	rows, err := r.q.Query(ctx, `
		SELECT period_id, workplace_id, fiscal_year, name, start_date, end_date, status, adjustments_allowed
		FROM fiscal_periods
		WHERE workplace_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date DESC
		LIMIT 1`, workplaceID, domain.DateOf(date))
	if err != nil {
		return nil, mapError(err, "fiscal period", "failed to query fiscal period")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, mapError(err, "fiscal period for "+date.Format(time.DateOnly), "failed to scan fiscal period")
	}
	p := toDomainPeriod(m)
	return &p, nil
}

// AdjustmentsAllowed reports whether adjusting entries may post into a closed period.
func (r *PgxJournalRepository) AdjustmentsAllowed(ctx context.Context, workplaceID, periodID string) (bool, error) {
	var allowed bool
	err := r.q.QueryRow(ctx, `
		SELECT adjustments_allowed FROM fiscal_periods
		WHERE period_id = $1 AND workplace_id = $2`, periodID, workplaceID).Scan(&allowed)
	if err != nil {
		return false, mapError(err, "fiscal period "+periodID, "failed to read fiscal period "+periodID)
	}
	return allowed, nil
}
