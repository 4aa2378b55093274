package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/service"
)

// mockTaskService is a function-field mock of service.TaskService.
type mockTaskService struct {
	CreateTaskFn func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error)
	calls        []service.CreateTaskInput
}

func (m *mockTaskService) CreateTask(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
	m.calls = append(m.calls, input)
	return m.CreateTaskFn(ctx, input)
}

// mockDashboardService is a function-field mock of service.DashboardService.
type mockDashboardService struct {
	ListDueTodayFn   func(ctx context.Context, claims *apikey.Claims) ([]*domain.Task, error)
	ListDueBetweenFn func(ctx context.Context, claims *apikey.Claims, start, end time.Time) ([]*domain.Task, error)
	MarkCompleteFn   func(ctx context.Context, claims *apikey.Claims, id uuid.UUID) error
}

func (m *mockDashboardService) ListDueToday(ctx context.Context, claims *apikey.Claims) ([]*domain.Task, error) {
	return m.ListDueTodayFn(ctx, claims)
}

func (m *mockDashboardService) ListDueBetween(
	ctx context.Context,
	claims *apikey.Claims,
	start, end time.Time,
) ([]*domain.Task, error) {
	return m.ListDueBetweenFn(ctx, claims, start, end)
}

func (m *mockDashboardService) MarkComplete(ctx context.Context, claims *apikey.Claims, id uuid.UUID) error {
	return m.MarkCompleteFn(ctx, claims, id)
}
