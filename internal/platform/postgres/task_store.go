package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskColumns = `id, application_id, tenant_id, type, status, due_at, completed_at, description, created_at`

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a store over db. If logger is nil, the default
// logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create. The stored id and created_at are
// read back into task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, application_id, tenant_id, type, status, due_at, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	var description sql.NullString
	if task.Description != nil {
		description = sql.NullString{String: *task.Description, Valid: true}
	}

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.ID,
		task.ApplicationID,
		task.TenantID,
		string(task.Type),
		string(task.Status),
		task.DueAt.UTC(),
		description,
		task.CreatedAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("application_id", task.ApplicationID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("application_id", task.ApplicationID.String()),
		slog.String("task_type", string(task.Type)))
	return nil
}

// ListOpenDueBetween implements store.TaskStore.ListOpenDueBetween.
func (s *PostgresTaskStore) ListOpenDueBetween(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status <> 'completed'
		  AND due_at >= $1
		  AND due_at < $2
		ORDER BY due_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		log.Error("failed to query tasks due in range",
			slog.String("error", err.Error()),
			slog.Time("start", start),
			slog.Time("end", end))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed tasks due in range",
		slog.Int("count", len(tasks)),
		slog.Time("start", start),
		slog.Time("end", end))
	return tasks, nil
}

// MarkCompleted implements store.TaskStore.MarkCompleted.
func (s *PostgresTaskStore) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = 'completed', completed_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, completedAt.UTC(), id)
	if err != nil {
		log.Error("failed to mark task completed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("task not found for completion", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task marked completed", slog.String("task_id", id.String()))
	return nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		taskType    string
		status      string
		completedAt sql.NullTime
		description sql.NullString
	)

	if err := row.Scan(
		&task.ID,
		&task.ApplicationID,
		&task.TenantID,
		&taskType,
		&status,
		&task.DueAt,
		&completedAt,
		&description,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}

	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	if description.Valid {
		d := description.String
		task.Description = &d
	}
	return &task, nil
}
