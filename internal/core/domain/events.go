package domain

import "time"

// EventType names a lifecycle notification.
type EventType string

const (
	EventEntryPosted   EventType = "journal.entry.posted"
	EventEntryReversed EventType = "journal.entry.reversed"
	EventEntryVoided   EventType = "journal.entry.voided"
)

// EntryEvent is published after the transaction that produced it commits.
type EntryEvent struct {
	Type         EventType `json:"type"`
	WorkplaceID  string    `json:"workplaceID"`
	EntryID      string    `json:"entryID"`
	EntryNumber  int64     `json:"entryNumber"`
	RelatedID    *string   `json:"relatedID,omitempty"`
	ActorID      string    `json:"actorID"`
	OccurredAt   time.Time `json:"occurredAt"`
	TotalAmount  string    `json:"totalAmount"`
	CurrencyCode string    `json:"currencyCode"`
}
