package repositories

import (
	"context"
)

// TxFunc is the unit of work executed by a TransactionManager. The repository it
// receives is bound to the running transaction.
type TxFunc func(ctx context.Context, repo JournalRepositoryFacade) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTransaction runs fn in one atomic unit. It commits when fn returns nil
	// and rolls back otherwise. Transient conflicts are retried by the implementation,
	// so fn must be safe to run more than once.
	WithinTransaction(ctx context.Context, fn TxFunc) error
}
