package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestTaskServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TaskServiceError
		expected string
	}{
		{
			name: "with underlying error",
			err: &TaskServiceError{
				Operation: "create_task",
				Message:   "failed to insert task",
				Err:       errors.New("connection refused"),
			},
			expected: "task service create_task failed: failed to insert task: connection refused",
		},
		{
			name:     "without underlying error",
			err:      &TaskServiceError{Operation: "list_due_today", Message: "no rows"},
			expected: "task service list_due_today failed: no rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewTaskServiceError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, NewTaskServiceError("create_task", "ignored", nil))
	})

	t.Run("store not found maps to sentinel", func(t *testing.T) {
		err := NewTaskServiceError("mark_complete", "update failed",
			fmt.Errorf("wrapped: %w", store.ErrTaskNotFound))
		assert.Same(t, ErrTaskNotFound, err)
	})

	t.Run("not configured passes through", func(t *testing.T) {
		err := NewTaskServiceError("list_due_today", "ignored", ErrNotConfigured)
		assert.Same(t, ErrNotConfigured, err)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewTaskServiceError("create_task", "failed to insert task", cause)

		var serviceErr *TaskServiceError
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "create_task", serviceErr.Operation)
		assert.ErrorIs(t, err, cause)
	})
}
