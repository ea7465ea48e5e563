package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventServiceRequestSubmitted     = "service_request_submitted"
	EventServiceRequestStatusChanged = "service_request_status_changed"
	EventOperatorServiceSubmitted    = "operator_service_submitted"
	EventOperatorAvailabilityChanged = "operator_availability_changed"
	EventBookingCreated              = "booking_created"
)

// ServiceRequestPayload describes a service request snapshot for event consumers.
type ServiceRequestPayload struct {
	RequestID  string `json:"request_id"`
	CustomerID string `json:"customer_id"`
	PostalCode string `json:"postal_code"`
	Status     string `json:"status"`
	ChangedBy  string `json:"changed_by,omitempty"`
}

type OperatorServicePayload struct {
	OperatorServiceID string `json:"operator_service_id"`
	OperatorID        string `json:"operator_id"`
	PostalCode        string `json:"postal_code"`
	Available         bool   `json:"available"`
	ChangedBy         string `json:"changed_by,omitempty"`
}

type BookingPayload struct {
	BookingID        string  `json:"booking_id"`
	ServiceRequestID string  `json:"service_request_id"`
	PostalCode       string  `json:"postal_code,omitempty"`
	ScheduledDate    string  `json:"scheduled_date"`
	Status           string  `json:"status"`
	FinalPrice       float64 `json:"final_price"`
	CreatedBy        string  `json:"created_by"`
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
	catchAll    []EventHandler
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

// SubscribeAll registers a handler that receives every event.
func (b *EventBus) SubscribeAll(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = append(b.catchAll, handler)
}

// Publish notifies subscribers of the event type, then catch-all subscribers.
// Handlers run synchronously; the first handler error is returned after all handlers ran.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
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

	return b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
}
