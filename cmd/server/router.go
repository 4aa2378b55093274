package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.Recoverer)
	r.Use(apiMiddleware.CORS)

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.page, app.dashboard, app.logger)
	keyAuth := apiMiddleware.NewKeyAuth(app.keyVerifier)

	r.Get("/health", api.Health)

	// Edge-function path kept for existing callers
	r.Post("/functions/v1/create-task", taskHandler.CreateTask)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tasks", taskHandler.CreateTask)

		r.Group(func(r chi.Router) {
			r.Use(keyAuth.Authenticate)
			r.Get("/dashboard/today", dashboardHandler.ListToday)
			r.Post("/dashboard/tasks/{id}/complete", dashboardHandler.CompleteTask)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.CompressHandler)
		r.Get(api.DashboardPagePath, dashboardHandler.Page)
		r.Post(api.DashboardPagePath+"/{id}/complete", dashboardHandler.CompleteForm)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, api.DashboardPagePath, http.StatusFound)
	})

	return r
}
