package repositories

import (
	"context"

	"github.com/SscSPs/journal_engine/internal/core/domain"
)

// AccountReader is the engine's view of the account directory.
type AccountReader interface {
	// FindAccountsByIDs returns the accounts of workplaceID among ids, keyed by id.
	// Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, workplaceID string, ids []string) (map[string]domain.Account, error)
}
