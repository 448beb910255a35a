// Package notify delivers ticket lifecycle events to customers. Events are
// enqueued as asynq tasks after the state change has committed and are
// delivered at most once; a lost notification never affects the queue.
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventTicketCreated   EventType = "ticket.created"
	EventTicketCalled    EventType = "ticket.called"
	EventTicketCompleted EventType = "ticket.completed"
)

// Event is the payload of a notification task.
type Event struct {
	Type         EventType `json:"type"`
	TicketID     int64     `json:"ticket_id"`
	StoreID      int64     `json:"store_id"`
	StoreName    string    `json:"store_name"`
	UserID       int64     `json:"user_id"`
	TicketNumber int       `json:"ticket_number"`
	SecretCode   string    `json:"secret_code"`

	// Position and EstimatedWait are set for ticket.created.
	Position      int `json:"position,omitempty"`
	EstimatedWait int `json:"estimated_wait,omitempty"`

	// ServiceMinutes is set for ticket.completed.
	ServiceMinutes int `json:"service_minutes,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// Emitter hands an event to the delivery pipeline.
type Emitter interface {
	Emit(ctx context.Context, ev Event) error
}

// Sender delivers a formatted message to the customer.
type Sender interface {
	Send(ctx context.Context, ev Event, text string) error
}
