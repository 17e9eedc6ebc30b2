package pgsql

import (
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres journal store.
func NewRepositoryProvider(dbPool *pgxpool.Pool, opts Options) portsrepo.JournalRepositoryWithTx {
	return NewJournalRepository(dbPool, opts)
}
