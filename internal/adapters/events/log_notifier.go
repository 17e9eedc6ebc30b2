package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/middleware"
)

// LogNotifier writes events to the request logger. Used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event domain.EntryEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("journal event",
		slog.String("type", string(event.Type)),
		slog.String("workplace_id", event.WorkplaceID),
		slog.String("entry_id", event.EntryID),
		slog.Int64("entry_number", event.EntryNumber),
		slog.String("total", event.TotalAmount),
	)
	return nil
}
