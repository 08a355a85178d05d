package rules

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game/turn events
	EventGameStarted   EventType = "GAME_STARTED"
	EventTurnStarted   EventType = "TURN_STARTED"
	EventTurnEnded     EventType = "TURN_ENDED"
	EventAceCycled     EventType = "ACE_CYCLED"
	EventGameWon       EventType = "GAME_WON"
	EventIllegalIntent EventType = "ILLEGAL_INTENT"

	// Card movement events
	EventCardDrawn      EventType = "CARD_DRAWN"
	EventCardDiscarded  EventType = "CARD_DISCARDED"
	EventCardPlayed     EventType = "CARD_PLAYED"
	EventCardStolen     EventType = "CARD_STOLEN"
	EventDeckReshuffled EventType = "DECK_RESHUFFLED"
	EventSwapBarUsed    EventType = "SWAP_BAR_USED"
	EventCardsRevealed  EventType = "CARDS_REVEALED"
	EventHandRevealed   EventType = "HAND_REVEALED"

	// Action protocol events
	EventActionProposed EventType = "ACTION_PROPOSED"
	EventCounterPlayed  EventType = "COUNTER_PLAYED"
	EventCounterPassed  EventType = "COUNTER_PASSED"
	EventActionResolved EventType = "ACTION_RESOLVED"
	EventScuttled       EventType = "SCUTTLED"
	EventProtectionUsed EventType = "PROTECTION_USED"
	EventEffectApplied  EventType = "EFFECT_APPLIED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string    // Unique event ID
	Seat        int       // Seat that caused the event, NoSeat when none
	CardID      string    // Card the event is about
	TargetID    string    // Card or action being acted on
	ActionID    string    // Pending action the event belongs to
	Amount      int       // Numeric value (cards drawn, score, depth)
	Flag        bool      // Boolean outcome (resolution success, etc.)
	Timestamp   time.Time // When the event occurred
	Description string    // Human-readable narration
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners run in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	handles := make([]int, 0, len(bus.listeners))
	for h := range bus.listeners {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	listeners := make([]Listener, 0, len(handles))
	for _, h := range handles {
		listeners = append(listeners, bus.listeners[h])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, seat int, cardID, description string) Event {
	return Event{
		Type:        eventType,
		ID:          uuid.NewString(),
		Seat:        seat,
		CardID:      cardID,
		Timestamp:   time.Now(),
		Description: description,
	}
}
