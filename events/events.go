package events

import (
	"context"
	"sync"

	"archoops/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePredictionSettled EventType = "prediction_settled"
	EventTypeGameCompleted     EventType = "game_completed"
	EventTypePointsAdjusted    EventType = "points_adjusted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PredictionSettledEvent represents a prediction that was converted into points
type PredictionSettledEvent struct {
	PredictionID  int64
	UserID        int64
	GameID        int64
	PointsEarned  int64
	AccuracyScore int
	TransactionID int64
}

func (e PredictionSettledEvent) Type() EventType {
	return EventTypePredictionSettled
}

// GameCompletedEvent represents a game that reached its terminal state
type GameCompletedEvent struct {
	GameID    int64
	HomeScore int
	AwayScore int
	Simulated bool
}

func (e GameCompletedEvent) Type() EventType {
	return EventTypeGameCompleted
}

// PointsAdjustedEvent represents a manual or lesson-driven point change
type PointsAdjustedEvent struct {
	UserID        int64
	Amount        int64
	Reason        models.TransactionReason
	TransactionID int64
}

func (e PointsAdjustedEvent) Type() EventType {
	return EventTypePointsAdjusted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional wrapper around a bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event from transactional bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
