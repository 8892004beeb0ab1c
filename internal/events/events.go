package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

const (
	EventManagerRegistered = "manager_registered"
	EventClientCreated     = "client_created"
	EventReminderCreated   = "reminder_created"
)

// ManagerEventPayload снимок менеджера после регистрации
type ManagerEventPayload struct {
	ManagerID    int64     `json:"manager_id"`
	TelegramID   int64     `json:"telegram_id"`
	FullName     string    `json:"full_name"`
	Industry     string    `json:"industry"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ClientEventPayload новый клиент менеджера
type ClientEventPayload struct {
	ClientID    int64     `json:"client_id"`
	ManagerID   int64     `json:"manager_id"`
	ManagerName string    `json:"manager_name"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderEventPayload созданное напоминание
type ReminderEventPayload struct {
	ReminderID int64     `json:"reminder_id"`
	ManagerID  int64     `json:"manager_id"`
	ClientID   *int64    `json:"client_id,omitempty"`
	Type       string    `json:"type"`
	DueDate    time.Time `json:"due_date"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode разбирает JSON payload
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
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

// Publish вызывает подписчиков синхронно. Ошибка одного подписчика
// не мешает остальным, все ошибки возвращаются вместе.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
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
