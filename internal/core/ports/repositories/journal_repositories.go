package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entries
type EntryReader interface {
	// FindEntryByID retrieves an entry header. Lines are not loaded.
	FindEntryByID(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)

	// FindEntryForUpdate retrieves an entry header and holds its row lock until the
	// transaction ends. A lock wait beyond the configured bound fails with LockTimeoutError.
	FindEntryForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)

	// FindLines returns the entry's lines ordered by line number.
	FindLines(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries returns a page of entries newest first, and a token for the next page.
	ListEntries(ctx context.Context, workplaceID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entries
type EntryWriter interface {
	// NextEntryNumber atomically allocates the next number of the workplace sequence.
	NextEntryNumber(ctx context.Context, workplaceID string) (int64, error)

	// SaveEntry inserts a new entry header and its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus moves an entry to status. For POSTED the posting fields and
	// fiscal period are written too.
	UpdateEntryStatus(ctx context.Context, entry domain.JournalEntry) error

	// MarkReversed flips a posted entry to REVERSED and links it to its reversal.
	MarkReversed(ctx context.Context, entryID, reversalID, userID string, at time.Time) error
}

// LedgerReader defines read operations for ledger rows
type LedgerReader interface {
	// LatestRunningBalances returns the most recent running balance per account.
	// Accounts without rows are absent from the map.
	LatestRunningBalances(ctx context.Context, workplaceID string, accountIDs []string) (map[string]decimal.Decimal, error)

	// SumLedger returns the total debits and credits of an account's rows dated on or before asOf.
	SumLedger(ctx context.Context, workplaceID, accountID string, asOf time.Time) (domain.LedgerTotals, error)

	// ListLedgerRows returns a page of an account's rows in posting order.
	ListLedgerRows(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error)
}

// LedgerWriter defines write operations for ledger rows
type LedgerWriter interface {
	// LockAccounts serializes posting per account for the rest of the transaction.
	// Implementations must acquire locks in ascending id order.
	LockAccounts(ctx context.Context, workplaceID string, accountIDs []string) error

	// InsertLedgerRows appends rows and reports how many were written.
	InsertLedgerRows(ctx context.Context, rows []domain.LedgerRow) (int, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	AccountReader
	PeriodReader
	EntryReader
	EntryWriter
	LedgerReader
	LedgerWriter
	RecurringReader
	RecurringWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
