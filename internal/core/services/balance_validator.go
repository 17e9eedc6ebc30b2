package services

import (
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/utils/accounting"
)

// ValidateBalance reports whether entry can be posted as it stands: totals must be
// non-zero and equal, and every line must carry exactly one positive side.
// It returns EmptyEntryError, UnbalancedEntryError or ValidationError.
func ValidateBalance(entry *domain.JournalEntry) error {
	return accounting.ValidateEntryBalance(entry.EntryID, entry.Lines)
}
