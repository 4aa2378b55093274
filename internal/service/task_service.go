package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// RoleRunner runs fn in a transaction adopting the database role named by claims.
type RoleRunner interface {
	RunAsRole(ctx context.Context, claims *apikey.Claims, fn store.TxFn) error
}

// TaskService creates follow-up tasks.
type TaskService interface {
	// CreateTask validates input, confirms the application exists, and stores
	// a pending task inheriting the application's tenant. A task.created event
	// is published afterwards; publish failures do not fail the call.
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	runner     RoleRunner
	serviceKey *apikey.Claims
	apps       store.ApplicationStore
	tasks      store.TaskStore
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewTaskService creates a TaskService.
//
// runner and serviceKey may be nil when the platform is not configured; every
// CreateTask call then fails with ErrNotConfigured after input validation.
func NewTaskService(
	runner RoleRunner,
	serviceKey *apikey.Claims,
	apps store.ApplicationStore,
	tasks store.TaskStore,
	publisher events.Publisher,
	logger *slog.Logger,
) (TaskService, error) {
	if apps == nil {
		return nil, errors.New("application store cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("event publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		runner:     runner,
		serviceKey: serviceKey,
		apps:       apps,
		tasks:      tasks,
		publisher:  publisher,
		logger:     logger.With(slog.String("component", "task_service")),
		now:        time.Now,
	}, nil
}

func (s *taskServiceImpl) configured() bool {
	return s.runner != nil && s.serviceKey != nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	valid, err := ValidateCreateTask(input, now)
	if err != nil {
		log.Debug("create task request rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	if !s.configured() {
		log.Error("cannot create task: platform URL or service key is not configured")
		return nil, ErrNotConfigured
	}

	var app *domain.Application
	err = s.runner.RunAsRole(ctx, s.serviceKey, func(ctx context.Context, tx *sql.Tx) error {
		var getErr error
		app, getErr = s.apps.WithTx(tx).GetByID(ctx, valid.ApplicationID)
		return getErr
	})
	if err != nil {
		log.Warn("application lookup failed",
			slog.String("application_id", valid.ApplicationID.String()),
			slog.String("error", err.Error()))
		return nil, ErrApplicationNotFound
	}

	task, err := domain.NewTask(app, valid.Type, valid.DueAt, now)
	if err != nil {
		log.Error("failed to build task",
			slog.String("application_id", app.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to build task", err)
	}

	err = s.runner.RunAsRole(ctx, s.serviceKey, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to insert task",
			slog.String("task_id", task.ID.String()),
			slog.String("application_id", app.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to insert task", err)
	}

	s.publishCreated(ctx, log, task)

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("application_id", task.ApplicationID.String()),
		slog.String("task_type", string(task.Type)))
	return task, nil
}

// publishCreated broadcasts task.created once. The row is already inserted,
// so failures and panics are only logged.
func (s *taskServiceImpl) publishCreated(ctx context.Context, log *slog.Logger, task *domain.Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("broadcast of task.created panicked",
				slog.String("task_id", task.ID.String()),
				slog.Any("panic", r))
		}
	}()

	event, err := events.NewEvent(events.TopicTasks, events.EventTaskCreated, events.TaskCreated{
		TaskID:        task.ID,
		ApplicationID: task.ApplicationID,
		TaskType:      string(task.Type),
		DueAt:         task.DueAt,
		CreatedAt:     task.CreatedAt,
	})
	if err != nil {
		log.Error("failed to build task.created event",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to broadcast task.created",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
	}
}
