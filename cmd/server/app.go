package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/dashboard"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// broadcastLogHandler logs events when no Redis broadcast is configured.
type broadcastLogHandler struct {
	logger *slog.Logger
}

// HandleEvent implements events.EventHandler.
func (h *broadcastLogHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("event broadcast (local)",
		"event_id", event.ID,
		"topic", event.Topic,
		"event", event.Name,
		"payload", string(event.Payload))
	return nil
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	publisher        events.Publisher
	taskService      service.TaskService
	dashboardService service.DashboardService

	keyVerifier apiMiddleware.KeyVerifier
	dashboard   api.DashboardConfig
	page        *dashboard.Page
}

// newApplication wires the stores, services and handlers. db may be nil when
// no platform URL is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.page, err = dashboard.NewPage()
	if err != nil {
		return nil, err
	}

	app.publisher = app.setupPublisher(ctx)

	var keys *apikey.Keys
	if cfg.Platform.JWTSecret != "" {
		keys, err = apikey.New(cfg.Platform.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize platform keys: %w", err)
		}
	}

	serviceClaims := resolveKeyClaims(keys, cfg.Platform.ServiceRoleKey, "service_role_key", logger)
	if serviceClaims != nil && !apikey.IsPrivileged(serviceClaims.Role) {
		logger.Warn("service role key does not carry the service_role role; inserts may be refused",
			"role", serviceClaims.Role)
	}
	anonClaims := resolveKeyClaims(keys, cfg.Platform.AnonKey, "anon_key", logger)

	app.keyVerifier = newKeyVerifier(keys, cfg.Platform, logger)

	var runner service.RoleRunner
	if db != nil {
		runner = postgres.NewSession(db)
	}

	appStore := postgres.NewPostgresApplicationStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	var taskRunner service.RoleRunner
	if cfg.Platform.HasServiceCredentials() {
		taskRunner = runner
	}
	app.taskService, err = service.NewTaskService(taskRunner, serviceClaims, appStore, taskStore, app.publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.dashboardService, err = service.NewDashboardService(runner, taskStore, app.publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	app.dashboard = api.DashboardConfig{Location: time.Local}
	if cfg.Platform.HasAnonCredentials() && anonClaims != nil {
		app.dashboard.AnonKey = cfg.Platform.AnonKey
		app.dashboard.AnonClaims = anonClaims
	}

	logger.Info("Application initialized successfully",
		"create_task_enabled", taskRunner != nil && serviceClaims != nil,
		"dashboard_enabled", app.dashboard.AnonClaims != nil)
	return app, nil
}

// setupPublisher selects Redis broadcast when an address is configured and
// the in-process emitter otherwise.
func (app *application) setupPublisher(ctx context.Context) events.Publisher {
	cfg := app.config.Redis
	if cfg.Addr == "" {
		emitter := events.NewInMemoryEventEmitter(app.logger)
		emitter.RegisterHandler(&broadcastLogHandler{
			logger: app.logger.With("component", "broadcast_log"),
		})
		return emitter
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		app.logger.Warn("redis ping failed; broadcasts will be attempted anyway",
			"addr", cfg.Addr,
			"error", redact.Error(err))
	}

	return events.NewRedisPublisher(app.redis, app.logger).WithChannel(cfg.Channel)
}

// resolveKeyClaims decodes a configured key. With a signing secret the key
// must verify; without one it is only decoded. Unusable keys are logged and
// treated as absent.
func resolveKeyClaims(keys *apikey.Keys, key, name string, logger *slog.Logger) *apikey.Claims {
	if key == "" {
		return nil
	}

	var (
		claims *apikey.Claims
		err    error
	)
	if keys != nil {
		claims, err = keys.Parse(key)
	} else {
		claims, err = apikey.ParseUnverified(key)
	}
	if err != nil {
		logger.Error("configured platform key is unusable", "key", name, "error", err)
		return nil
	}
	return claims
}

// newKeyVerifier returns the verifier for keys presented by dashboard
// clients: signature checks when the secret is known, otherwise an exact
// match against the configured keys. nil disables the dashboard API.
func newKeyVerifier(keys *apikey.Keys, cfg config.PlatformConfig, logger *slog.Logger) apiMiddleware.KeyVerifier {
	if keys != nil {
		return keys
	}

	allowlist, err := apikey.NewAllowlist(cfg.AnonKey)
	if err != nil {
		logger.Error("anon key cannot be used to verify dashboard requests", "error", err)
		return nil
	}
	if allowlist.Len() == 0 {
		return nil
	}
	return allowlist
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
