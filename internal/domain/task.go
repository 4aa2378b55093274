package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskType is the kind of follow-up work a task represents.
type TaskType string

// Supported task types. The set is closed.
const (
	TaskTypeCall   TaskType = "call"
	TaskTypeEmail  TaskType = "email"
	TaskTypeReview TaskType = "review"
)

// TaskTypes lists every valid TaskType in display order.
var TaskTypes = []TaskType{TaskTypeCall, TaskTypeEmail, TaskTypeReview}

// TaskTypeNames returns the valid task types joined with ", ".
func TaskTypeNames() string {
	names := make([]string, 0, len(TaskTypes))
	for _, t := range TaskTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// ParseTaskType converts s into a TaskType. Matching is exact.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.Valid() {
		return "", ErrInvalidTaskType
	}
	return t, nil
}

// Valid reports whether t belongs to the closed set of task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeCall, TaskTypeEmail, TaskTypeReview:
		return true
	default:
		return false
	}
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s belongs to the closed set of task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Task is a unit of follow-up work tied to an Application.
//
// TenantID is always copied from the parent application when the task is
// built; callers never supply it.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	Type          TaskType   `json:"type"`
	Status        TaskStatus `json:"status"`
	DueAt         time.Time  `json:"due_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewTask builds a pending task for app. dueAt must be strictly after now.
func NewTask(app *Application, taskType TaskType, dueAt, now time.Time) (*Task, error) {
	if app == nil {
		return nil, NewValidationError("application_id", "is required", ErrValidation)
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	task := &Task{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		TenantID:      app.TenantID,
		Type:          taskType,
		Status:        TaskStatusPending,
		DueAt:         dueAt,
		CreatedAt:     now.UTC(),
	}

	if err := task.Validate(now); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants a task must satisfy at creation time.
func (t *Task) Validate(now time.Time) error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.ApplicationID == uuid.Nil {
		return NewValidationError("application_id", "cannot be empty", ErrInvalidID)
	}
	if t.TenantID == uuid.Nil {
		return ErrMissingTenant
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "is not a known task type", ErrInvalidTaskType)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "is not a known task status", ErrInvalidTaskStatus)
	}
	if !t.DueAt.After(now) {
		return NewValidationError("due_at", "must be a future timestamp", ErrDueAtNotInFuture)
	}
	return nil
}
