package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task. The task is validated by the caller;
	// constraint violations are reported as ErrInvalidEntity.
	Create(ctx context.Context, task *domain.Task) error

	// ListOpenDueBetween returns tasks whose status is not completed and whose
	// due_at falls in the half-open interval [start, end), ordered by due_at ascending.
	// Returns an empty slice if nothing matches.
	ListOpenDueBetween(ctx context.Context, start, end time.Time) ([]*domain.Task, error)

	// MarkCompleted sets status to completed and stamps completed_at.
	// Returns ErrTaskNotFound if no row was updated.
	MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) error

	// WithTx returns a new TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
