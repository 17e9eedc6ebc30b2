// Package memory is an in-process implementation of the journal store for tests
// and local development. Transactions run one at a time against a private copy of
// the data, which replaces the committed state only when the unit of work succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/SscSPs/journal_engine/internal/utils/accounting"
	"github.com/SscSPs/journal_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// DefaultLockTimeout bounds the wait for the single writer slot.
const DefaultLockTimeout = 5 * time.Second

type state struct {
	accounts  map[string]domain.Account
	periods   map[string]domain.FiscalPeriod
	sequences map[string]int64
	entries   map[string]domain.JournalEntry
	lines     map[string][]domain.JournalLine
	ledger    []domain.LedgerRow
	ledgerSeq int64
	templates map[string]domain.RecurringTemplate
	runs      map[string]domain.RecurringRun
}

func newState() *state {
	return &state{
		accounts:  map[string]domain.Account{},
		periods:   map[string]domain.FiscalPeriod{},
		sequences: map[string]int64{},
		entries:   map[string]domain.JournalEntry{},
		lines:     map[string][]domain.JournalLine{},
		templates: map[string]domain.RecurringTemplate{},
		runs:      map[string]domain.RecurringRun{},
	}
}

func (st *state) clone() *state {
	c := &state{
		accounts:  make(map[string]domain.Account, len(st.accounts)),
		periods:   make(map[string]domain.FiscalPeriod, len(st.periods)),
		sequences: make(map[string]int64, len(st.sequences)),
		entries:   make(map[string]domain.JournalEntry, len(st.entries)),
		lines:     make(map[string][]domain.JournalLine, len(st.lines)),
		ledger:    append([]domain.LedgerRow(nil), st.ledger...),
		ledgerSeq: st.ledgerSeq,
		templates: make(map[string]domain.RecurringTemplate, len(st.templates)),
		runs:      make(map[string]domain.RecurringRun, len(st.runs)),
	}
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.periods {
		c.periods[k] = v
	}
	for k, v := range st.sequences {
		c.sequences[k] = v
	}
	for k, v := range st.entries {
		c.entries[k] = v
	}
	for k, v := range st.lines {
		c.lines[k] = append([]domain.JournalLine(nil), v...)
	}
	for k, v := range st.templates {
		v.Lines = append([]domain.TemplateLine(nil), v.Lines...)
		c.templates[k] = v
	}
	for k, v := range st.runs {
		c.runs[k] = v
	}
	return c
}

// Store is the in-memory journal store.
type Store struct {
	mu          *sync.RWMutex // shared with the transaction-scoped view
	st          *state
	open        *state        // data of the running transaction, if any
	writer      chan struct{} // nil on the transaction-scoped view
	lockTimeout time.Duration
}

// NewStore creates an empty store. A non-positive lockTimeout selects DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		mu:          new(sync.RWMutex),
		st:          newState(),
		writer:      make(chan struct{}, 1),
		lockTimeout: lockTimeout,
	}
}

// Ensure Store implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*Store)(nil)

// WithinTransaction runs fn against a private copy of the data and publishes the
// copy on success. Only one transaction runs at a time; waiting longer than the
// lock timeout fails with LockTimeoutError.
func (s *Store) WithinTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	if s.writer == nil {
		// already inside a transaction
		return fn(ctx, s)
	}

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.writer <- struct{}{}:
	case <-timer.C:
		return &apperrors.LockTimeoutError{Resource: "memory store writer"}
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.writer }()

	s.mu.Lock()
	tx := &Store{mu: s.mu, st: s.st.clone()}
	s.open = tx.st
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.open = nil
		s.mu.Unlock()
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = tx.st
	s.open = nil
	s.mu.Unlock()
	return nil
}

// apply runs mutate on the committed data and on the running transaction's copy, so
// directory and calendar changes survive a concurrent commit.
func (s *Store) apply(mutate func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := mutate(s.st); err != nil {
		return err
	}
	if s.open != nil && s.open != s.st {
		return mutate(s.open)
	}
	return nil
}

// PutAccount adds or replaces an account in the directory.
func (s *Store) PutAccount(acc domain.Account) {
	_ = s.apply(func(st *state) error {
		st.accounts[acc.AccountID] = acc
		return nil
	})
}

// PutPeriod adds or replaces a fiscal period in the calendar.
func (s *Store) PutPeriod(p domain.FiscalPeriod) {
	_ = s.apply(func(st *state) error {
		st.periods[p.PeriodID] = p
		return nil
	})
}

// SetPeriodStatus changes a period's status, as the fiscal calendar would on close.
func (s *Store) SetPeriodStatus(periodID string, status domain.PeriodStatus) error {
	return s.apply(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("fiscal period " + periodID + " not found")
		}
		p.Status = status
		st.periods[periodID] = p
		return nil
	})
}

// --- AccountReader ---

func (s *Store) FindAccountsByIDs(_ context.Context, workplaceID string, ids []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		if acc, ok := s.st.accounts[id]; ok && acc.WorkplaceID == workplaceID {
			res[id] = acc
		}
	}
	return res, nil
}

// --- PeriodReader ---

func (s *Store) FindPeriodByDate(_ context.Context, workplaceID string, date time.Time) (*domain.FiscalPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.st.periods {
		if p.WorkplaceID == workplaceID && p.Covers(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no fiscal period covers " + date.Format(time.DateOnly))
}

func (s *Store) AdjustmentsAllowed(_ context.Context, workplaceID, periodID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.st.periods[periodID]
	if !ok || p.WorkplaceID != workplaceID {
		return false, apperrors.NewNotFoundError("fiscal period " + periodID + " not found")
	}
	return p.AdjustmentsAllowed, nil
}

// --- EntryReader ---

func (s *Store) FindEntryByID(_ context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.st.entries[entryID]
	if !ok || e.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID + " not found")
	}
	return &e, nil
}

// FindEntryForUpdate needs no extra locking: the transaction already holds the only writer slot.
func (s *Store) FindEntryForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return s.FindEntryByID(ctx, workplaceID, entryID)
}

func (s *Store) FindLines(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := append([]domain.JournalLine(nil), s.st.lines[entryID]...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
	return lines, nil
}

func (s *Store) ListEntries(_ context.Context, workplaceID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var before int64 = -1
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		before = n
	}

	s.mu.RLock()
	matched := make([]domain.JournalEntry, 0)
	for _, e := range s.st.entries {
		if e.WorkplaceID != workplaceID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		if before >= 0 && e.EntryNumber >= before {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].EntryNumber > matched[j].EntryNumber })
	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	token := pagination.EncodeEntryToken(page[len(page)-1].EntryNumber)
	return page, &token, nil
}

// --- EntryWriter ---

func (s *Store) NextEntryNumber(_ context.Context, workplaceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sequences[workplaceID]++
	return s.st.sequences[workplaceID], nil
}

func (s *Store) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.st.entries[entry.EntryID]; exists {
		return apperrors.NewAppError(409, "journal entry "+entry.EntryID+" already exists", apperrors.ErrDuplicate)
	}
	for _, e := range s.st.entries {
		if e.WorkplaceID == entry.WorkplaceID && e.EntryNumber == entry.EntryNumber {
			return apperrors.NewAppError(409, fmt.Sprintf("entry number %d already used", entry.EntryNumber), apperrors.ErrDuplicate)
		}
		if entry.ReversalOfID != nil && e.ReversalOfID != nil && *e.ReversalOfID == *entry.ReversalOfID {
			return &apperrors.AlreadyReversedError{EntryID: *entry.ReversalOfID, ReversalID: e.EntryID}
		}
	}
	lines := append([]domain.JournalLine(nil), entry.Lines...)
	entry.Lines = nil
	s.st.entries[entry.EntryID] = entry
	s.st.lines[entry.EntryID] = lines
	return nil
}

func (s *Store) UpdateEntryStatus(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.st.entries[entry.EntryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entry.EntryID + " not found")
	}
	if entry.Status != domain.Draft && !entry.TotalDebit.Equal(entry.TotalCredit) {
		return fmt.Errorf("entry %s: totals must balance outside draft", entry.EntryID)
	}
	current.Status = entry.Status
	current.PostedAt = entry.PostedAt
	current.PostedBy = entry.PostedBy
	current.FiscalPeriodID = entry.FiscalPeriodID
	current.TotalDebit = entry.TotalDebit
	current.TotalCredit = entry.TotalCredit
	current.LastUpdatedAt = entry.LastUpdatedAt
	current.LastUpdatedBy = entry.LastUpdatedBy
	s.st.entries[entry.EntryID] = current
	return nil
}

func (s *Store) MarkReversed(_ context.Context, entryID, reversalID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.st.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found")
	}
	if e.Status != domain.Posted {
		return &apperrors.InvalidStateTransitionError{EntryID: entryID, From: string(e.Status), To: string(domain.Reversed)}
	}
	e.Status = domain.Reversed
	e.ReversedByID = &reversalID
	e.LastUpdatedAt = at
	e.LastUpdatedBy = userID
	s.st.entries[entryID] = e
	return nil
}

// --- LedgerReader / LedgerWriter ---

// LockAccounts is a no-op: the transaction already holds the only writer slot.
func (s *Store) LockAccounts(context.Context, string, []string) error {
	return nil
}

func (s *Store) LatestRunningBalances(_ context.Context, workplaceID string, accountIDs []string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = struct{}{}
	}
	res := make(map[string]decimal.Decimal, len(accountIDs))
	for _, row := range s.st.ledger { // ledger is in sequence order
		if row.WorkplaceID != workplaceID {
			continue
		}
		if _, ok := want[row.AccountID]; ok {
			res[row.AccountID] = row.RunningBalance
		}
	}
	return res, nil
}

func (s *Store) InsertLedgerRows(_ context.Context, rows []domain.LedgerRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.st.ledgerSeq++
		r.Sequence = s.st.ledgerSeq
		s.st.ledger = append(s.st.ledger, r)
	}
	return len(rows), nil
}

func (s *Store) SumLedger(_ context.Context, workplaceID, accountID string, asOf time.Time) (domain.LedgerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := domain.LedgerTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	cutoff := domain.DateOf(asOf)
	for _, row := range s.st.ledger {
		if row.WorkplaceID != workplaceID || row.AccountID != accountID || row.EntryDate.After(cutoff) {
			continue
		}
		totals.Debit = totals.Debit.Add(row.Debit)
		totals.Credit = totals.Credit.Add(row.Credit)
	}
	return totals, nil
}

func (s *Store) ListLedgerRows(_ context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	var after int64
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeLedgerToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		after = seq
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	page := make([]domain.LedgerRow, 0, limit)
	for _, row := range s.st.ledger {
		if row.WorkplaceID != workplaceID || row.AccountID != accountID || row.Sequence <= after {
			continue
		}
		if len(page) == limit {
			token := pagination.EncodeLedgerToken(page[len(page)-1].Sequence)
			return page, &token, nil
		}
		page = append(page, row)
	}
	return page, nil, nil
}

// Balance is a convenience for tests: the account's balance over all rows.
func (s *Store) Balance(workplaceID, accountID string) decimal.Decimal {
	s.mu.RLock()
	acc := s.st.accounts[accountID]
	s.mu.RUnlock()
	totals, _ := s.SumLedger(context.Background(), workplaceID, accountID, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
	return totals.Balance(accounting.NormalBalanceOf(acc))
}

// LedgerRows returns every ledger row in posting order.
func (s *Store) LedgerRows() []domain.LedgerRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LedgerRow(nil), s.st.ledger...)
}

// --- RecurringReader / RecurringWriter ---

func (s *Store) FindTemplate(_ context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.st.templates[templateID]
	if !ok || t.WorkplaceID != workplaceID {
		return nil, apperrors.NewNotFoundError("recurring template " + templateID + " not found")
	}
	t.Lines = append([]domain.TemplateLine(nil), t.Lines...)
	return &t, nil
}

func (s *Store) FindTemplateForUpdate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	return s.FindTemplate(ctx, workplaceID, templateID)
}

func (s *Store) ListTemplates(_ context.Context, workplaceID string, includeInactive bool) ([]domain.RecurringTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.RecurringTemplate, 0)
	for _, t := range s.st.templates {
		if t.WorkplaceID != workplaceID || (!includeInactive && !t.IsActive) {
			continue
		}
		t.Lines = append([]domain.TemplateLine(nil), t.Lines...)
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *Store) ListDueTemplates(_ context.Context, asOf time.Time) ([]domain.RecurringTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := domain.DateOf(asOf)
	res := make([]domain.RecurringTemplate, 0)
	for _, t := range s.st.templates {
		if t.NextRunDate.After(cutoff) || t.Expired(t.NextRunDate) {
			continue
		}
		t.Lines = nil
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].NextRunDate.Equal(res[j].NextRunDate) {
			return res[i].NextRunDate.Before(res[j].NextRunDate)
		}
		return res[i].TemplateID < res[j].TemplateID
	})
	return res, nil
}

func runKey(templateID string, runDate time.Time) string {
	return templateID + "|" + domain.DateOf(runDate).Format(time.DateOnly)
}

func (s *Store) HasRun(_ context.Context, templateID string, runDate time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.st.runs[runKey(templateID, runDate)]
	return ok, nil
}

func (s *Store) LastRun(_ context.Context, templateID string, before time.Time) (*domain.RecurringRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *domain.RecurringRun
	for _, r := range s.st.runs {
		if r.TemplateID != templateID || !r.RunDate.Before(domain.DateOf(before)) {
			continue
		}
		if last == nil || r.RunDate.After(last.RunDate) {
			run := r
			last = &run
		}
	}
	return last, nil
}

func (s *Store) SaveTemplate(_ context.Context, template domain.RecurringTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.st.templates[template.TemplateID]; exists {
		return apperrors.NewAppError(409, "recurring template "+template.TemplateID+" already exists", apperrors.ErrDuplicate)
	}
	template.Lines = append([]domain.TemplateLine(nil), template.Lines...)
	s.st.templates[template.TemplateID] = template
	return nil
}

func (s *Store) UpdateSchedule(_ context.Context, templateID string, nextRunDate time.Time, isActive bool, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.templates[templateID]
	if !ok {
		return apperrors.NewNotFoundError("recurring template " + templateID + " not found")
	}
	t.NextRunDate = domain.DateOf(nextRunDate)
	t.IsActive = isActive
	t.Touch(userID, at)
	s.st.templates[templateID] = t
	return nil
}

func (s *Store) SetTemplateActive(_ context.Context, workplaceID, templateID string, active bool, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.templates[templateID]
	if !ok || t.WorkplaceID != workplaceID {
		return apperrors.NewNotFoundError("recurring template " + templateID + " not found")
	}
	t.IsActive = active
	t.Touch(userID, at)
	s.st.templates[templateID] = t
	return nil
}

func (s *Store) RecordRun(_ context.Context, run domain.RecurringRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := runKey(run.TemplateID, run.RunDate)
	if _, exists := s.st.runs[key]; exists {
		return apperrors.NewAppError(409, "recurring run "+key+" already recorded", apperrors.ErrDuplicate)
	}
	run.RunDate = domain.DateOf(run.RunDate)
	s.st.runs[key] = run
	return nil
}
