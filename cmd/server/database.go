package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// setupAppDatabase opens the connection pool for the platform URL.
//
// A missing URL returns a nil pool: the handlers then answer with a
// configuration error. A failed ping is logged but not fatal, so requests
// report the outage themselves.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Platform.URL == "" {
		logger.Warn("platform URL is not configured; task creation and the dashboard are disabled")
		return nil, nil
	}

	db, err := sql.Open("pgx", cfg.Platform.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database ping failed", "error", redact.Error(err))
		return db, nil
	}

	logger.Info("Database connection established")
	return db, nil
}
