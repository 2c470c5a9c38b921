package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Bus fans import events out to subscribers and optionally persists them.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event // eventType -> channels
	allSubs     []chan Event            // subscribers to all events
	log         *EventLog               // may be nil
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a new event bus. Pass a nil EventLog to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		log:         log,
		logger:      logger,
	}
}

// Publish persists e (when a log is configured) and delivers it without
// blocking; subscribers with a full buffer miss the event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	typed := slices.Clone(b.subscribers[e.EventType()])
	all := slices.Clone(b.allSubs)
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			// Delivery still happens; the log is an audit trail.
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	b.deliver(typed, e, "subscriber channel full, dropping event")
	b.deliver(all, e, "all-subscriber channel full, dropping event")
	return nil
}

func (b *Bus) deliver(chs []chan Event, e Event, dropMsg string) {
	// Sends happen under the read lock so Close cannot close a channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range chs {
		select {
		case ch <- e:
		default:
			b.logger.Warn(dropMsg,
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// SubscribeEntity returns events for a specific entity.
// It subscribes to all events and filters.
func (b *Bus) SubscribeEntity(entityType, entityID string, bufferSize int) <-chan Event {
	allCh := b.SubscribeAll(bufferSize * 10)
	filtered := make(chan Event, bufferSize)

	go func() {
		defer close(filtered)
		for e := range allCh {
			if e.EntityType() != entityType || e.EntityID() != entityID {
				continue
			}
			select {
			case filtered <- e:
			default:
			}
		}
	}()

	return filtered
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	match := func(sub chan Event) bool { return (<-chan Event)(sub) == ch }

	for eventType, subs := range b.subscribers {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			close(subs[i])
			b.subscribers[eventType] = slices.Delete(subs, i, i+1)
			return
		}
	}
	if i := slices.IndexFunc(b.allSubs, match); i >= 0 {
		close(b.allSubs[i])
		b.allSubs = slices.Delete(b.allSubs, i, i+1)
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = nil

	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil

	return nil
}
