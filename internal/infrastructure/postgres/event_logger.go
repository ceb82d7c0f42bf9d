package postgres

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

// EventLogger appends domain events to the domain_events table.
type EventLogger struct {
	db DB
}

func NewEventLogger(db DB) *EventLogger { return &EventLogger{db: db} }

func (l *EventLogger) LogEvent(ctx context.Context, e event.DomainEvent) error {
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `
		INSERT INTO domain_events (id, aggregate_id, event_type, meta, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.AggregateID, string(e.Type), meta, e.OccurredAt)
	if err != nil {
		return repository.StorageError("insert domain event", err)
	}
	return nil
}

var _ repository.EventLogger = (*EventLogger)(nil)
