package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/dashboard"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/apikey"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// Dashboard routes. The page script and the server-rendered forms build
// their request URLs from these.
const (
	DashboardTasksPath    = "/api/dashboard/today"
	DashboardCompletePath = "/api/dashboard/tasks/"
	DashboardPagePath     = "/dashboard/today"
	DashboardServerPage   = DashboardPagePath + "?render=server"
)

// DashboardConfig holds the restricted credential the page acts with.
type DashboardConfig struct {
	// AnonKey is embedded into the client page. Empty disables the page.
	AnonKey string
	// AnonClaims are the verified claims of AnonKey, used for server-side
	// rendering and form submissions.
	AnonClaims *apikey.Claims
	// Location is the zone due times are rendered in. Defaults to time.Local.
	Location *time.Location
}

// DashboardHandler serves the today dashboard: its JSON API and its page.
type DashboardHandler struct {
	dashboardService service.DashboardService
	page             *dashboard.Page
	cfg              DashboardConfig
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService service.DashboardService,
	page *dashboard.Page,
	cfg DashboardConfig,
	logger *slog.Logger,
) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &DashboardHandler{
		dashboardService: dashboardService,
		page:             page,
		cfg:              cfg,
		logger:           logger.With(slog.String("component", "dashboard_handler")),
	}
}

// ListToday handles GET /api/dashboard/today[?start=...&end=...]. The page
// script sends the bounds of the viewer's local day; without them the
// server's local day is used.
func (h *DashboardHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgMissingAPIKey)
		return
	}

	start, end, hasRange, err := getDayRange(r)
	if err != nil {
		HandleAPIError(w, r, err, MsgInvalidDateRange)
		return
	}

	var tasks []*domain.Task
	if hasRange {
		tasks, err = h.dashboardService.ListDueBetween(r.Context(), claims, start, end)
	} else {
		tasks, err = h.dashboardService.ListDueToday(r.Context(), claims)
	}
	if err != nil {
		HandleAPIError(w, r, err, MsgFailedToFetchTasks)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CompleteTask handles POST /api/dashboard/tasks/{id}/complete
func (h *DashboardHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgMissingAPIKey)
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid task id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, MsgInvalidTaskID)
		return
	}

	if err := h.dashboardService.MarkComplete(r.Context(), claims, taskID); err != nil {
		HandleAPIError(w, r, err, MsgFailedToUpdateTask)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompleteTaskResponse{
		Success: true,
		TaskID:  taskID.String(),
	})
}

// Page handles GET /dashboard/today. By default the page fetches its data
// from the JSON API with the embedded restricted key; ?render=server renders
// the task list directly.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("render") == dashboard.ModeServer {
		h.renderServer(w, r, http.StatusOK, "")
		return
	}

	if h.cfg.AnonKey == "" {
		h.renderServer(w, r, http.StatusInternalServerError, MsgConfigurationError)
		return
	}

	h.render(w, r, http.StatusOK,
		dashboard.ClientData(h.cfg.AnonKey, DashboardTasksPath, DashboardCompletePath))
}

// CompleteForm handles POST /dashboard/today/{id}/complete from the
// server-rendered page and redirects back to it.
func (h *DashboardHandler) CompleteForm(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AnonClaims == nil {
		h.renderServer(w, r, http.StatusInternalServerError, MsgConfigurationError)
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		h.renderServer(w, r, http.StatusBadRequest, MsgInvalidTaskID)
		return
	}

	if err := h.dashboardService.MarkComplete(r.Context(), h.cfg.AnonClaims, taskID); err != nil {
		h.renderServer(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err, MsgFailedToUpdateTask))
		return
	}

	http.Redirect(w, r, DashboardServerPage, http.StatusSeeOther)
}

// renderServer renders the server-side page. A non-empty errMessage shows
// the error state without querying the store.
func (h *DashboardHandler) renderServer(w http.ResponseWriter, r *http.Request, status int, errMessage string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if errMessage != "" {
		h.render(w, r, status, dashboard.ServerData(nil, errMessage, DashboardPagePath))
		return
	}

	if h.cfg.AnonClaims == nil {
		log.Error("cannot render dashboard: anon key is not configured")
		h.render(w, r, http.StatusInternalServerError,
			dashboard.ServerData(nil, MsgConfigurationError, DashboardPagePath))
		return
	}

	tasks, err := h.dashboardService.ListDueToday(r.Context(), h.cfg.AnonClaims)
	if err != nil {
		message := MsgFailedToFetchTasks
		if errors.Is(err, service.ErrNotConfigured) {
			message = MsgConfigurationError
		}
		log.Error("failed to load dashboard tasks", slog.String("error", err.Error()))
		h.render(w, r, http.StatusInternalServerError,
			dashboard.ServerData(nil, message, DashboardPagePath))
		return
	}

	views := dashboard.NewTaskViews(tasks, h.cfg.Location)
	h.render(w, r, status, dashboard.ServerData(views, "", DashboardPagePath))
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, data dashboard.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.page.Render(w, data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Error("failed to render dashboard page", slog.String("error", err.Error()))
	}
}
