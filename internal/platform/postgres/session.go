package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// setRoleQuery adopts the key's role and publishes its claims for RLS policies.
// The third argument makes both settings local to the transaction.
const setRoleQuery = `SELECT set_config('role', $1, true), set_config('request.jwt.claims', $2, true)`

// RunAsRole executes fn in a transaction running as the database role named
// by claims. Settings are discarded when the transaction ends.
func RunAsRole(ctx context.Context, db *sql.DB, claims *apikey.Claims, fn store.TxFn) error {
	if claims == nil {
		return apikey.ErrMissingKey
	}
	if !apikey.ValidRole(claims.Role) {
		return apikey.ErrUnknownRole
	}

	rawClaims, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to encode key claims: %w", err)
	}

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, setRoleQuery, claims.Role, string(rawClaims)); err != nil {
			logger.FromContext(ctx).Error("failed to adopt database role",
				slog.String("role", claims.Role),
				slog.String("error", err.Error()))
			return MapError(err)
		}
		return fn(ctx, tx)
	})
}

// Session binds RunAsRole to a connection pool.
type Session struct {
	db *sql.DB
}

// NewSession creates a Session over db.
func NewSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// RunAsRole executes fn in a transaction running as the role named by claims.
func (s *Session) RunAsRole(ctx context.Context, claims *apikey.Claims, fn store.TxFn) error {
	return RunAsRole(ctx, s.db, claims, fn)
}

// DB returns the underlying pool.
func (s *Session) DB() *sql.DB {
	return s.db
}
