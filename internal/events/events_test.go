package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := TaskCreated{
		TaskID:        uuid.New(),
		ApplicationID: uuid.New(),
		TaskType:      "call",
		DueAt:         time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2029, 12, 31, 9, 0, 0, 0, time.UTC),
	}

	event, err := NewEvent(TopicTasks, EventTaskCreated, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TopicTasks, event.Topic)
	assert.Equal(t, EventTaskCreated, event.Name)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded TaskCreated
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventRejectsUnencodablePayload(t *testing.T) {
	event, err := NewEvent(TopicTasks, EventTaskCreated, make(chan int))

	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestEventEnvelope(t *testing.T) {
	taskID := uuid.MustParse("7f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f")
	event, err := NewEvent(TopicTasks, EventTaskCompleted, TaskCompleted{
		TaskID:      taskID,
		CompletedAt: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	raw, err := event.Envelope()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "broadcast",
		"event": "task.completed",
		"payload": {
			"task_id": "7f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f",
			"completed_at": "2030-01-01T09:00:00Z"
		}
	}`, string(raw))
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestMockEventHandler(t *testing.T) {
	handler := &MockEventHandler{}
	event, err := NewEvent(TopicTasks, EventTaskCreated, map[string]string{"key": "value"})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)

	expectedErr := errors.New("handler error")
	handler.HandlerError = expectedErr
	assert.Equal(t, expectedErr, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 2, handler.HandledCount)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(handler.LastEvent.Payload, &payload))
	assert.Equal(t, "value", payload["key"])
}
