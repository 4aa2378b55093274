package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskHandler handles the create-task endpoint.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /functions/v1/create-task and POST /api/tasks.
// It validates the body, inserts a pending task for the referenced
// application and responds with the new task id.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		// An unreadable body is not one of the field-level rejections; it
		// falls through to the generic failure like any other unhandled error.
		log.Warn("failed to decode create task body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, MsgInternalServerError)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.CreateTaskInput{
		ApplicationID: string(req.ApplicationID),
		TaskType:      string(req.TaskType),
		DueAt:         string(req.DueAt),
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err, MsgFailedToCreateTask)

		// Anything past input checks and the application lookup is an
		// insert failure as far as the caller is concerned.
		if status != http.StatusBadRequest && !errors.Is(err, service.ErrNotConfigured) {
			status = http.StatusInternalServerError
			message = MsgFailedToCreateTask
		}

		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CreateTaskResponse{
		Success: true,
		TaskID:  task.ID.String(),
	})
}

// MethodNotAllowed answers every method other than POST and OPTIONS.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// NotFound answers unknown routes with the failure envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
