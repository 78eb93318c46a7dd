package events

import (
	"context"

	"go.uber.org/zap"
)

// AuditLogger returns a handler that records every event to the log,
// giving soft-deleted tickets a visible trail beyond the retained rows.
func AuditLogger(logger *zap.Logger) EventHandler {
	return func(_ context.Context, event Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Time("timestamp", event.Timestamp),
		}
		if event.UserID != nil {
			fields = append(fields, zap.String("user_id", *event.UserID))
		}
		logger.Info("domain event", fields...)
		return nil
	}
}
