package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

// migrationCommands lists the accepted -migrate values.
var migrationCommands = []string{"up", "down", "reset", "status", "version"}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to main.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func validMigrationCommand(command string) bool {
	for _, c := range migrationCommands {
		if c == command {
			return true
		}
	}
	return false
}

// runMigrations applies command to the platform database using the embedded
// migration files.
func runMigrations(cfg *config.Config, command string, verbose bool) error {
	migrationLogger := slog.Default().With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)

	if !validMigrationCommand(command) {
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, migrationCommands)
	}
	if cfg.Platform.URL == "" {
		return fmt.Errorf("platform URL is empty: set TASKS_PLATFORM_URL")
	}

	db, err := sql.Open("pgx", cfg.Platform.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			migrationLogger.Error("Error closing database connection", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %s", redact.Error(err))
	}

	startTime := time.Now()
	if err := executeMigration(db, command, verbose, migrationLogger); err != nil {
		migrationLogger.Error("Migration command failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(startTime).Milliseconds())
		return err
	}

	migrationLogger.Info("Migration command executed successfully",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

// executeMigration runs a goose command against db.
func executeMigration(db *sql.DB, command string, verbose bool, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetVerbose(verbose)
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir := postgres.MigrationsDir

	var err error
	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "reset":
		err = goose.Reset(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}
	return nil
}
