package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Topics and event names.
const (
	// TopicTasks is the channel task lifecycle events are broadcast on.
	TopicTasks = "tasks"

	// EventTaskCreated is emitted after a task has been stored.
	EventTaskCreated = "task.created"

	// EventTaskCompleted is emitted after a task has been marked completed.
	EventTaskCompleted = "task.completed"
)

// Event is a named notification on a topic.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Topic is the broadcast channel the event is delivered on
	Topic string `json:"topic"`

	// Name identifies what happened, e.g. "task.created"
	Name string `json:"name"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreated is the payload of EventTaskCreated.
type TaskCreated struct {
	TaskID        uuid.UUID `json:"task_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	TaskType      string    `json:"task_type"`
	DueAt         time.Time `json:"due_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// TaskCompleted is the payload of EventTaskCompleted.
type TaskCompleted struct {
	TaskID      uuid.UUID `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// envelope is the broadcast wire format subscribers receive.
type envelope struct {
	Type    string          `json:"type"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent creates an Event on topic with the given name and payload.
func NewEvent(topic, name string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Topic:     topic,
		Name:      name,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Envelope encodes the event as a broadcast message:
// {"type":"broadcast","event":<name>,"payload":<payload>}.
func (e *Event) Envelope() ([]byte, error) {
	return json.Marshal(envelope{
		Type:    "broadcast",
		Event:   e.Name,
		Payload: e.Payload,
	})
}

// EventHandler processes events dispatched in-process.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// Publisher delivers events to subscribers. Implementations attempt delivery
// once and report the failure; they never retry.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}
