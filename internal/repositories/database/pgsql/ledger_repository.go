package pgsql

import (
	"context"
	"slices"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/models"
	"github.com/SscSPs/journal_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `row_id, sequence, workplace_id, account_id, entry_id, line_id, fiscal_period_id,
	entry_date, debit, credit, running_balance, description, reference, source_type, source_id, created_at`

func toDomainLedgerRow(m models.LedgerRow) domain.LedgerRow {
	return domain.LedgerRow{
		RowID:          m.RowID,
		Sequence:       m.Sequence,
		WorkplaceID:    m.WorkplaceID,
		AccountID:      m.AccountID,
		EntryID:        m.EntryID,
		LineID:         m.LineID,
		FiscalPeriodID: m.FiscalPeriodID,
		EntryDate:      domain.DateOf(m.EntryDate),
		Debit:          m.Debit,
		Credit:         m.Credit,
		RunningBalance: m.RunningBalance,
		Description:    m.Description,
		Reference:      m.Reference,
		SourceType:     m.SourceType,
		SourceID:       m.SourceID,
		CreatedAt:      m.CreatedAt,
	}
}

// LockAccounts serializes postings per account. It takes a transaction-scoped advisory
// lock for each account in sorted order, then bumps the account's ledger head so a
// transaction whose snapshot predates a concurrent posting aborts with 40001 and is rerun.
func (r *PgxJournalRepository) LockAccounts(ctx context.Context, workplaceID string, accountIDs []string) error {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	for _, id := range ids {
		if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, workplaceID+":"+id); err != nil {
			return mapError(err, "account "+id, "failed to lock account "+id)
		}
		if _, err := r.q.Exec(ctx, `
			INSERT INTO account_ledger_heads (workplace_id, account_id, postings) VALUES ($1, $2, 1)
			ON CONFLICT (workplace_id, account_id) DO UPDATE SET postings = account_ledger_heads.postings + 1`,
			workplaceID, id); err != nil {
			return mapError(err, "account "+id, "failed to advance ledger head of account "+id)
		}
	}
	return nil
}

// LatestRunningBalances returns each account's running balance after its newest row.
// Accounts without rows are absent from the map.
func (r *PgxJournalRepository) LatestRunningBalances(ctx context.Context, workplaceID string, accountIDs []string) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (account_id) account_id, running_balance
		FROM ledger_rows
		WHERE workplace_id = $1 AND account_id = ANY($2)
		ORDER BY account_id, sequence DESC`, workplaceID, accountIDs)
	if err != nil {
		return nil, mapError(err, "ledger", "failed to query running balances")
	}
	defer rows.Close()

	res := make(map[string]decimal.Decimal, len(accountIDs))
	for rows.Next() {
		var id string
		var bal decimal.Decimal
		if err := rows.Scan(&id, &bal); err != nil {
			return nil, mapError(err, "ledger", "failed to scan running balance")
		}
		res[id] = bal
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "ledger", "error iterating running balances")
	}
	return res, nil
}

// InsertLedgerRows appends rows in one batch and reports how many were written.
func (r *PgxJournalRepository) InsertLedgerRows(ctx context.Context, ledgerRows []domain.LedgerRow) (int, error) {
	batch := &pgx.Batch{}
	query := `INSERT INTO ledger_rows (row_id, workplace_id, account_id, entry_id, line_id, fiscal_period_id,
			entry_date, debit, credit, running_balance, description, reference, source_type, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	for _, row := range ledgerRows {
		batch.Queue(query,
			row.RowID, row.WorkplaceID, row.AccountID, row.EntryID, row.LineID, row.FiscalPeriodID,
			row.EntryDate, row.Debit, row.Credit, row.RunningBalance, row.Description, row.Reference,
			row.SourceType, row.SourceID, row.CreatedAt,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	written := 0
	for range ledgerRows {
		tag, err := br.Exec()
		if err != nil {
			return written, mapError(err, "ledger", "failed to insert ledger row")
		}
		written += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return written, mapError(err, "ledger", "failed to insert ledger rows")
	}
	return written, nil
}

// SumLedger totals an account's rows dated on or before asOf.
func (r *PgxJournalRepository) SumLedger(ctx context.Context, workplaceID, accountID string, asOf time.Time) (domain.LedgerTotals, error) {
	totals := domain.LedgerTotals{}
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_rows
		WHERE workplace_id = $1 AND account_id = $2 AND entry_date <= $3`,
		workplaceID, accountID, domain.DateOf(asOf)).Scan(&totals.Debit, &totals.Credit)
	if err != nil {
		return domain.LedgerTotals{}, mapError(err, "ledger", "failed to sum ledger for account "+accountID)
	}
	return totals, nil
}

// ListLedgerRows pages through an account's rows in posting order.
func (r *PgxJournalRepository) ListLedgerRows(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	var after int64
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeLedgerToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		after = seq
	}

	rows, err := r.q.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_rows
		WHERE workplace_id = $1 AND account_id = $2 AND sequence > $3
		ORDER BY sequence
		LIMIT $4`, workplaceID, accountID, after, limit+1)
	if err != nil {
		return nil, nil, mapError(err, "ledger", "failed to query ledger rows for account "+accountID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerRow])
	if err != nil {
		return nil, nil, mapError(err, "ledger", "failed to scan ledger rows")
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		t := pagination.EncodeLedgerToken(ms[len(ms)-1].Sequence)
		token = &t
	}
	res := make([]domain.LedgerRow, len(ms))
	for i, m := range ms {
		res[i] = toDomainLedgerRow(m)
	}
	return res, token, nil
}
