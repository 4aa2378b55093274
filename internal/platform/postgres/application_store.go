package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// PostgresApplicationStore implements store.ApplicationStore.
type PostgresApplicationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresApplicationStore creates a store over db. If logger is nil,
// the default logger is used.
func NewPostgresApplicationStore(db store.DBTX, logger *slog.Logger) *PostgresApplicationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresApplicationStore{
		db:     db,
		logger: logger.With(slog.String("component", "application_store")),
	}
}

var _ store.ApplicationStore = (*PostgresApplicationStore)(nil)

// GetByID implements store.ApplicationStore.GetByID.
func (s *PostgresApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, tenant_id
		FROM applications
		WHERE id = $1
	`

	var app domain.Application
	err := s.db.QueryRowContext(ctx, query, id).Scan(&app.ID, &app.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("application not found", slog.String("application_id", id.String()))
			return nil, store.ErrApplicationNotFound
		}
		log.Error("failed to get application by ID",
			slog.String("error", err.Error()),
			slog.String("application_id", id.String()))
		return nil, MapError(err)
	}

	return &app, nil
}

// WithTx implements store.ApplicationStore.WithTx.
func (s *PostgresApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return &PostgresApplicationStore{
		db:     tx,
		logger: s.logger,
	}
}
