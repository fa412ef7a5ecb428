package ports

import (
	"context"
	"time"
)

// HTTPServer defines the interface for the HTTP server
type HTTPServer interface {
	Start(ctx context.Context, port int, host string) error
	Stop(ctx context.Context) error
	NotifyClients(event UpdateEvent) error
	IsRunning() bool
}

// UpdateEvent represents an event sent to WebSocket clients
type UpdateEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// UpdateEventType constants
const (
	EventTypeConnected       = "connected"
	EventTypeStateChanged    = "state_changed"
	EventTypeTaskStarted     = "task_started"
	EventTypeTaskCompleted   = "task_completed"
	EventTypeTaskDiscarded   = "task_discarded"
	EventTypeTaskCancelled   = "task_cancelled"
	EventTypeTemplateChanged = "template_changed"
	EventTypeError           = "error"
)

// EventPublisher fans workspace events out to interested clients
type EventPublisher interface {
	Publish(event UpdateEvent)
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(UpdateEvent) {}
