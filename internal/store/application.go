package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// ApplicationStore reads the parent records tasks are attached to.
type ApplicationStore interface {
	// GetByID retrieves an application's identity and tenant.
	// Returns ErrApplicationNotFound if the application does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)

	// WithTx returns a new ApplicationStore bound to tx.
	WithTx(tx *sql.Tx) ApplicationStore
}
