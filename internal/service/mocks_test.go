package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockApplicationStore mocks the store.ApplicationStore interface
type MockApplicationStore struct {
	mock.Mock
}

func (m *MockApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return m
}

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) ListOpenDueBetween(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// fakeRunner runs fn directly, recording the role of every call.
type fakeRunner struct {
	roles []string
	err   error
}

func (r *fakeRunner) RunAsRole(ctx context.Context, claims *apikey.Claims, fn store.TxFn) error {
	r.roles = append(r.roles, claims.Role)
	if r.err != nil {
		return r.err
	}
	return fn(ctx, nil)
}

// recordingPublisher captures published events. A non-nil panicValue makes
// Publish panic after recording.
type recordingPublisher struct {
	events     []*events.Event
	err        error
	panicValue interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, event *events.Event) error {
	p.events = append(p.events, event)
	if p.panicValue != nil {
		panic(p.panicValue)
	}
	return p.err
}
