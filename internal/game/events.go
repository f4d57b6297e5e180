package game

import "time"

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeGameStart EventType = "game_start"
	EventTypePhase     EventType = "phase"
	EventTypeRecord    EventType = "record"
	EventTypeGameEnd   EventType = "game_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything published while a game runs
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published once setup has dealt the cards. State is a
// clone and includes every hand; subscribers decide what to reveal.
type GameStartEvent struct {
	State     *GameState
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// NewGameStartEvent creates a new game start event
func NewGameStartEvent(state *GameState) GameStartEvent {
	return GameStartEvent{State: state, timestamp: time.Now()}
}

// PhaseEvent is published when the state machine enters a phase
type PhaseEvent struct {
	Phase     Phase
	Turn      int
	timestamp time.Time
}

func (e PhaseEvent) EventType() EventType { return EventTypePhase }
func (e PhaseEvent) Timestamp() time.Time { return e.timestamp }

// NewPhaseEvent creates a new phase event
func NewPhaseEvent(phase Phase, turn int) PhaseEvent {
	return PhaseEvent{Phase: phase, Turn: turn, timestamp: time.Now()}
}

// RecordEvent is published for every history record, in history order and
// only after the phase that produced it has been committed.
type RecordEvent struct {
	Record    Record
	timestamp time.Time
}

func (e RecordEvent) EventType() EventType { return EventTypeRecord }
func (e RecordEvent) Timestamp() time.Time { return e.timestamp }

// NewRecordEvent creates a new record event
func NewRecordEvent(r Record) RecordEvent {
	return RecordEvent{Record: r, timestamp: time.Now()}
}

// GameEndEvent is published when the game reaches TERMINAL
type GameEndEvent struct {
	State     *GameState
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// NewGameEndEvent creates a new game end event
func NewGameEndEvent(state *GameState) GameEndEvent {
	return GameEndEvent{State: state, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous, on the goroutine running the game.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
