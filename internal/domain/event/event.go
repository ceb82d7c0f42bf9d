package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	UserCreated       Type = "USER_CREATED"
	UserDeleted       Type = "USER_DELETED"
	UserEmailVerified Type = "USER_EMAIL_VERIFIED"
)

// DomainEvent is an immutable record of something that happened to an
// aggregate.
type DomainEvent struct {
	ID          uuid.UUID      `json:"id"`
	Type        Type           `json:"event_type"`
	AggregateID uuid.UUID      `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Meta        map[string]any `json:"meta,omitempty"`
}

func New(t Type, aggregateID uuid.UUID, meta map[string]any) DomainEvent {
	return DomainEvent{
		ID:          uuid.New(),
		Type:        t,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Meta:        meta,
	}
}

// Aggregate is what the Bus needs from an aggregate root.
type Aggregate interface {
	AggregateID() uuid.UUID
	DomainEvents() []DomainEvent
	ClearEvents()
}

// Root collects pending events; embed it in aggregate roots.
type Root struct {
	events []DomainEvent
}

func (r *Root) AddEvent(e DomainEvent) { r.events = append(r.events, e) }

// DomainEvents returns a copy of the pending events.
func (r *Root) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Root) ClearEvents() { r.events = nil }
