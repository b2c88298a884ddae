package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventAccountCreated  = "account_created"
	EventAccountDeleted  = "account_deleted"
	EventBookingCreated  = "booking_created"
	EventBookingCanceled = "booking_cancelled"
	EventBookingDeleted  = "booking_deleted"
)

// AccountEventPayload describes the account snapshot for event consumers.
type AccountEventPayload struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	TravelStyle string `json:"travel_style,omitempty"`
}

// BookingEventPayload describes the minimal booking snapshot for event
// consumers.
type BookingEventPayload struct {
	BookingID       string    `json:"booking_id"`
	OwnerEmail      string    `json:"owner_email,omitempty"`
	DestinationID   string    `json:"destination_id"`
	DestinationName string    `json:"destination_name"`
	Price           int64     `json:"price"`
	TravelMonth     string    `json:"travel_month,omitempty"`
	GroupSize       string    `json:"group_size,omitempty"`
	Status          string    `json:"status"`
	BookedAt        time.Time `json:"booked_at"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
