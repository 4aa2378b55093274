// Package main runs the tasks API server: the task-creation endpoint, the
// today dashboard, and database migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run database migrations: up, down, reset, status or version")
	verbose := flag.Bool("verbose", false, "Enable verbose migration output")
	flag.Parse()

	cfg, l, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, *verbose); err != nil {
			l.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		l.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		l.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		l.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	l.Debug("Platform configuration",
		"url_present", cfg.Platform.URL != "",
		"service_key_present", cfg.Platform.ServiceRoleKey != "",
		"anon_key_present", cfg.Platform.AnonKey != "",
		"jwt_secret_present", cfg.Platform.JWTSecret != "",
		"redis_configured", cfg.Redis.Addr != "")

	return cfg, l, nil
}
