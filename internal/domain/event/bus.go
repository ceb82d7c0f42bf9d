package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handler reacts to a dispatched event.
type Handler func(ctx context.Context, e DomainEvent) error

// Bus routes events from marked aggregates to registered handlers.
// It is safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers map[Type][]Handler
	marked   []Aggregate
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Register appends h for the event type. Duplicates are not detected.
func (b *Bus) Register(h Handler, t Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// MarkAggregateForDispatch adds agg unless an aggregate with the same id
// is already marked.
func (b *Bus) MarkAggregateForDispatch(agg Aggregate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(agg.AggregateID()) >= 0 {
		return
	}
	b.marked = append(b.marked, agg)
}

// IsMarked reports whether an aggregate with id is waiting for dispatch.
func (b *Bus) IsMarked(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexOf(id) >= 0
}

// DispatchEventsForAggregate invokes the handlers for every pending event of
// the marked aggregate, synchronously and in registration order. The
// aggregate is cleared and unmarked whether or not a handler fails; the
// first handler error stops dispatch and is returned.
func (b *Bus) DispatchEventsForAggregate(ctx context.Context, id uuid.UUID) error {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return nil
	}
	agg := b.marked[i]
	b.marked = append(b.marked[:i], b.marked[i+1:]...)
	events := agg.DomainEvents()
	agg.ClearEvents()
	snapshot := make(map[Type][]Handler, len(b.handlers))
	for t, hs := range b.handlers {
		snapshot[t] = append([]Handler(nil), hs...)
	}
	b.mu.Unlock()

	for _, e := range events {
		for _, h := range snapshot[e.Type] {
			if err := h(ctx, e); err != nil {
				return fmt.Errorf("dispatch %s for %s: %w", e.Type, e.AggregateID, err)
			}
		}
	}
	return nil
}

// ClearHandlers drops every registered handler.
func (b *Bus) ClearHandlers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[Type][]Handler)
}

// ClearMarked drops every marked aggregate without dispatching.
func (b *Bus) ClearMarked() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marked = nil
}

func (b *Bus) indexOf(id uuid.UUID) int {
	for i, a := range b.marked {
		if a.AggregateID() == id {
			return i
		}
	}
	return -1
}
