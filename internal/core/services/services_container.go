package services

import (
	portsrepo "github.com/SscSPs/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(journalRepo portsrepo.JournalRepositoryWithTx, options ...JournalServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Journal: NewJournalService(journalRepo, options...),
	}
}
