package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/dashboard"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// DashboardService backs the "today" dashboard. Every call runs under the
// role of the caller's key, so row-level security decides what is visible.
type DashboardService interface {
	// ListDueToday returns the caller's open tasks due on the server's
	// current local day, ordered by due time ascending.
	ListDueToday(ctx context.Context, claims *apikey.Claims) ([]*domain.Task, error)

	// ListDueBetween returns the caller's open tasks due in [start, end),
	// ordered by due time ascending. Browsers pass the bounds of their own
	// local day.
	ListDueBetween(ctx context.Context, claims *apikey.Claims, start, end time.Time) ([]*domain.Task, error)

	// MarkComplete marks the task completed. Returns ErrTaskNotFound when the
	// task does not exist or is not visible to the caller.
	MarkComplete(ctx context.Context, claims *apikey.Claims, id uuid.UUID) error
}

type dashboardServiceImpl struct {
	runner    RoleRunner
	tasks     store.TaskStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewDashboardService creates a DashboardService. runner may be nil when the
// platform is not configured; every call then fails with ErrNotConfigured.
func NewDashboardService(
	runner RoleRunner,
	tasks store.TaskStore,
	publisher events.Publisher,
	logger *slog.Logger,
) (DashboardService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("event publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &dashboardServiceImpl{
		runner:    runner,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "dashboard_service")),
		now:       time.Now,
	}, nil
}

// ListDueToday implements DashboardService.ListDueToday
func (s *dashboardServiceImpl) ListDueToday(ctx context.Context, claims *apikey.Claims) ([]*domain.Task, error) {
	start, end := dashboard.TodayRange(s.now())
	return s.ListDueBetween(ctx, claims, start, end)
}

// ListDueBetween implements DashboardService.ListDueBetween
func (s *dashboardServiceImpl) ListDueBetween(
	ctx context.Context,
	claims *apikey.Claims,
	start, end time.Time,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.runner == nil {
		log.Error("cannot list tasks: platform is not configured")
		return nil, ErrNotConfigured
	}

	var tasks []*domain.Task
	err := s.runner.RunAsRole(ctx, claims, func(ctx context.Context, tx *sql.Tx) error {
		var listErr error
		tasks, listErr = s.tasks.WithTx(tx).ListOpenDueBetween(ctx, start, end)
		return listErr
	})
	if err != nil {
		log.Error("failed to list tasks due today",
			slog.Time("start", start),
			slog.Time("end", end),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_due_today", "failed to list tasks", err)
	}

	log.Debug("listed tasks due today",
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// MarkComplete implements DashboardService.MarkComplete
func (s *dashboardServiceImpl) MarkComplete(ctx context.Context, claims *apikey.Claims, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.runner == nil {
		log.Error("cannot complete task: platform is not configured")
		return ErrNotConfigured
	}

	completedAt := s.now().UTC()
	err := s.runner.RunAsRole(ctx, claims, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).MarkCompleted(ctx, id, completedAt)
	})
	if err != nil {
		log.Warn("failed to mark task completed",
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
		return NewTaskServiceError("mark_complete", "failed to update task", err)
	}

	log.Info("task marked completed", slog.String("task_id", id.String()))
	s.publishCompleted(ctx, log, id, completedAt)
	return nil
}

// publishCompleted broadcasts task.completed once. The update is already
// committed, so failures and panics are only logged.
func (s *dashboardServiceImpl) publishCompleted(ctx context.Context, log *slog.Logger, id uuid.UUID, completedAt time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("broadcast of task.completed panicked",
				slog.String("task_id", id.String()),
				slog.Any("panic", r))
		}
	}()

	event, err := events.NewEvent(events.TopicTasks, events.EventTaskCompleted, events.TaskCompleted{
		TaskID:      id,
		CompletedAt: completedAt,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn("failed to broadcast task.completed",
			slog.String("task_id", id.String()),
			slog.String("error", err.Error()))
	}
}
