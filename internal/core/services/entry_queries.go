package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/utils/pagination"
)

const maxEntryPage = 200

// GetEntry retrieves an entry with its lines. Drafts are visible whether balanced or not.
func (s *journalService) GetEntry(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, workplaceID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLines(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries returns a page of entry headers, newest number first.
func (s *journalService) ListEntries(ctx context.Context, workplaceID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	var status *domain.EntryStatus
	if params.Status != "" {
		st := domain.EntryStatus(params.Status)
		status = &st
	}
	limit := pagination.NormalizeLimit(params.Limit, maxEntryPage)
	entries, next, err := s.journalRepo.ListEntries(ctx, workplaceID, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", "workplace_id", workplaceID)
		return nil, err
	}
	resp := dto.ToListEntriesResponse(entries, next)
	return &resp, nil
}
