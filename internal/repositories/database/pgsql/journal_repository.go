package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/SscSPs/journal_engine/internal/models"
	"github.com/SscSPs/journal_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxJournalRepository is the Postgres journal store. Outside a transaction it
// queries the pool; the copy handed to a TxFunc queries the transaction.
type PgxJournalRepository struct {
	BaseRepository
	q    querier
	inTx bool
	opts Options
}

// NewJournalRepository creates the Postgres journal store.
func NewJournalRepository(pool *pgxpool.Pool, opts Options) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		q:              pool,
		opts:           opts,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, workplace_id, entry_number, entry_date, fiscal_period_id, entry_type,
	source_type, source_id, description, reference, currency_code, exchange_rate,
	total_debit, total_credit, status, posted_at, posted_by, reversal_of_id, reversed_by_id,
	recurring_template_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit, credit,
	foreign_currency_code, foreign_amount, exchange_rate, tax_code, tax_amount,
	cost_center, project, department, description`

func toModelEntry(e domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:             e.EntryID,
		WorkplaceID:         e.WorkplaceID,
		EntryNumber:         e.EntryNumber,
		EntryDate:           e.EntryDate,
		FiscalPeriodID:      e.FiscalPeriodID,
		EntryType:           string(e.EntryType),
		Description:         e.Description,
		Reference:           e.Reference,
		CurrencyCode:        e.CurrencyCode,
		ExchangeRate:        e.ExchangeRate,
		TotalDebit:          e.TotalDebit,
		TotalCredit:         e.TotalCredit,
		Status:              string(e.Status),
		PostedAt:            e.PostedAt,
		PostedBy:            e.PostedBy,
		ReversalOfID:        e.ReversalOfID,
		ReversedByID:        e.ReversedByID,
		RecurringTemplateID: e.RecurringTemplateID,
		AuditFields: models.AuditFields{
			CreatedAt:     e.CreatedAt,
			CreatedBy:     e.CreatedBy,
			LastUpdatedAt: e.LastUpdatedAt,
			LastUpdatedBy: e.LastUpdatedBy,
		},
	}
	if e.Source != nil {
		st := string(e.Source.Type)
		m.SourceType = &st
		m.SourceID = &e.Source.ID
	}
	return m
}

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	e := domain.JournalEntry{
		EntryID:             m.EntryID,
		WorkplaceID:         m.WorkplaceID,
		EntryNumber:         m.EntryNumber,
		EntryDate:           domain.DateOf(m.EntryDate),
		FiscalPeriodID:      m.FiscalPeriodID,
		EntryType:           domain.EntryType(m.EntryType),
		Description:         m.Description,
		Reference:           m.Reference,
		CurrencyCode:        m.CurrencyCode,
		ExchangeRate:        m.ExchangeRate,
		TotalDebit:          m.TotalDebit,
		TotalCredit:         m.TotalCredit,
		Status:              domain.EntryStatus(m.Status),
		PostedAt:            m.PostedAt,
		PostedBy:            m.PostedBy,
		ReversalOfID:        m.ReversalOfID,
		ReversedByID:        m.ReversedByID,
		RecurringTemplateID: m.RecurringTemplateID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.SourceType != nil && m.SourceID != nil {
		e.Source = &domain.SourceRef{Type: domain.SourceType(*m.SourceType), ID: *m.SourceID}
	}
	return e
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func toModelLine(l domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:              l.LineID,
		EntryID:             l.EntryID,
		LineNumber:          l.LineNumber,
		AccountID:           l.AccountID,
		Debit:               l.Debit,
		Credit:              l.Credit,
		ForeignCurrencyCode: l.ForeignCurrencyCode,
		ForeignAmount:       nullDecimal(l.ForeignAmount),
		ExchangeRate:        nullDecimal(l.ExchangeRate),
		TaxCode:             l.TaxCode,
		TaxAmount:           nullDecimal(l.TaxAmount),
		CostCenter:          l.CostCenter,
		Project:             l.Project,
		Department:          l.Department,
		Description:         l.Description,
	}
}

func toDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:              m.LineID,
		EntryID:             m.EntryID,
		LineNumber:          m.LineNumber,
		AccountID:           m.AccountID,
		Debit:               m.Debit,
		Credit:              m.Credit,
		ForeignCurrencyCode: m.ForeignCurrencyCode,
		ForeignAmount:       decimalPtr(m.ForeignAmount),
		ExchangeRate:        decimalPtr(m.ExchangeRate),
		TaxCode:             m.TaxCode,
		TaxAmount:           decimalPtr(m.TaxAmount),
		Description:         m.Description,
		LineTags: domain.LineTags{
			CostCenter: m.CostCenter,
			Project:    m.Project,
			Department: m.Department,
		},
	}
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, workplaceID, entryID, suffix string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 AND workplace_id = $2` + suffix
	rows, err := r.q.Query(ctx, query, entryID, workplaceID)
	if err != nil {
		return nil, mapError(err, "journal entry "+entryID, "failed to query journal entry "+entryID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "journal entry "+entryID, "failed to scan journal entry "+entryID)
	}
	e := toDomainEntry(m)
	return &e, nil
}

// FindEntryByID retrieves an entry header without its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, workplaceID, entryID, "")
}

// FindEntryForUpdate locks the entry row for the rest of the transaction.
// A wait longer than lock_timeout surfaces as LockTimeoutError.
func (r *PgxJournalRepository) FindEntryForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, workplaceID, entryID, " FOR UPDATE")
}

// FindLines retrieves an entry's lines in line-number order.
func (r *PgxJournalRepository) FindLines(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number`
	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapError(err, "journal lines of "+entryID, "failed to query lines for entry "+entryID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, mapError(err, "journal lines of "+entryID, "failed to scan lines for entry "+entryID)
	}
	lines := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		lines[i] = toDomainLine(m)
	}
	return lines, nil
}

// ListEntries pages through a workplace's entries, newest number first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, workplaceID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	var before *int64
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		before = &n
	}
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	// Fetch one extra row to learn whether another page exists.
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE workplace_id = $1
			AND ($2::text IS NULL OR status = $2)
			AND ($3::bigint IS NULL OR entry_number < $3)
		ORDER BY entry_number DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, workplaceID, statusArg, before, limit+1)
	if err != nil {
		return nil, nil, mapError(err, "journal entries", "failed to list journal entries for workplace "+workplaceID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, mapError(err, "journal entries", "failed to scan journal entries")
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		t := pagination.EncodeEntryToken(ms[len(ms)-1].EntryNumber)
		token = &t
	}
	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = toDomainEntry(m)
	}
	return entries, token, nil
}

// NextEntryNumber allocates the workplace's next entry number. The counter row stays
// locked until the transaction ends, and a rollback releases the number.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, workplaceID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO entry_sequences (workplace_id, last_number) VALUES ($1, 1)
		ON CONFLICT (workplace_id) DO UPDATE SET last_number = entry_sequences.last_number + 1
		RETURNING last_number`, workplaceID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "entry sequence of "+workplaceID, "failed to allocate entry number")
	}
	return n, nil
}

// SaveEntry inserts a new entry with its lines.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := toModelEntry(entry)
	_, err := r.q.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		m.EntryID, m.WorkplaceID, m.EntryNumber, m.EntryDate, m.FiscalPeriodID, m.EntryType,
		m.SourceType, m.SourceID, m.Description, m.Reference, m.CurrencyCode, m.ExchangeRate,
		m.TotalDebit, m.TotalCredit, m.Status, m.PostedAt, m.PostedBy, m.ReversalOfID, m.ReversedByID,
		m.RecurringTemplateID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if code, pgErr := pgErrorCode(err); code == codeUniqueViolation && pgErr.ConstraintName == "uq_journal_entries_reversal_of" && entry.ReversalOfID != nil {
			return &apperrors.AlreadyReversedError{EntryID: *entry.ReversalOfID}
		}
		return mapError(err, "journal entry "+entry.EntryID, "failed to insert journal entry "+entry.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	for _, l := range entry.Lines {
		ml := toModelLine(l)
		batch.Queue(lineQuery,
			ml.LineID, ml.EntryID, ml.LineNumber, ml.AccountID, ml.Debit, ml.Credit,
			ml.ForeignCurrencyCode, ml.ForeignAmount, ml.ExchangeRate, ml.TaxCode, ml.TaxAmount,
			ml.CostCenter, ml.Project, ml.Department, ml.Description,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	// Close surfaces the first failed insert of the batch.
	if err := br.Close(); err != nil {
		return mapError(err, "journal lines of "+entry.EntryID, "failed to insert lines for entry "+entry.EntryID)
	}
	return nil
}

// UpdateEntryStatus persists a lifecycle change and the posting metadata.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, posted_at = $3, posted_by = $4, fiscal_period_id = $5,
			total_debit = $6, total_credit = $7, last_updated_at = $8, last_updated_by = $9
		WHERE entry_id = $1`,
		entry.EntryID, string(entry.Status), entry.PostedAt, entry.PostedBy, entry.FiscalPeriodID,
		entry.TotalDebit, entry.TotalCredit, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "journal entry "+entry.EntryID, "failed to update journal entry "+entry.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entry.EntryID + " not found")
	}
	return nil
}

// MarkReversed links a posted entry to its reversal and moves it to REVERSED.
func (r *PgxJournalRepository) MarkReversed(ctx context.Context, entryID, reversalID, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED'`,
		entryID, reversalID, at, userID,
	)
	if err != nil {
		return mapError(err, "journal entry "+entryID, "failed to mark entry "+entryID+" reversed")
	}
	if tag.RowsAffected() == 0 {
		return &apperrors.InvalidStateTransitionError{EntryID: entryID, From: "non-POSTED", To: string(domain.Reversed)}
	}
	return nil
}
