package services

import (
	"context"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// EntryReaderSvc defines read operations for journal entries
type EntryReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries in a workplace.
	ListEntries(ctx context.Context, workplaceID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines the lifecycle operations on journal entries
type EntryWriterSvc interface {
	// BuildDraft validates a proposed entry and persists it as a numbered draft.
	// An unbalanced draft is accepted; it only fails when posted.
	BuildDraft(ctx context.Context, workplaceID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)

	// Post moves a draft to POSTED and writes its ledger rows atomically.
	Post(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error)

	// Void moves a draft to VOIDED. Posted entries must be reversed instead.
	Void(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error)

	// Reverse creates and posts the mirror of a posted entry and marks the source REVERSED.
	// A nil reversalDate means today.
	Reverse(ctx context.Context, workplaceID, entryID string, reversalDate *time.Time, userID string) (*domain.JournalEntry, error)
}

// LedgerReaderSvc defines read operations over the ledger projection
type LedgerReaderSvc interface {
	// AccountBalance sums the account's ledger rows dated on or before asOf,
	// signed by the account's normal balance.
	AccountBalance(ctx context.Context, workplaceID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// ListLedgerRows retrieves a page of an account's ledger rows.
	ListLedgerRows(ctx context.Context, workplaceID, accountID string, params dto.ListLedgerRowsParams) (*dto.ListLedgerRowsResponse, error)
}

// RecurringSvc defines recurring template management and execution
type RecurringSvc interface {
	CreateTemplate(ctx context.Context, workplaceID string, req dto.CreateTemplateRequest, userID string) (*domain.RecurringTemplate, error)
	GetTemplate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error)
	ListTemplates(ctx context.Context, workplaceID string, params dto.ListTemplatesParams) ([]domain.RecurringTemplate, error)
	PauseTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error)
	ResumeTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error)

	// RunTemplate posts every due occurrence of one template up to asOf.
	RunTemplate(ctx context.Context, workplaceID, templateID string, asOf time.Time, userID string) (*domain.RecurringRunSummary, error)

	// RunDueRecurring scans all workplaces for due templates and posts their entries.
	// A failing template is reported and does not stop the scan.
	RunDueRecurring(ctx context.Context, asOf time.Time) (*domain.RecurringRunSummary, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
	LedgerReaderSvc
	RecurringSvc
}
