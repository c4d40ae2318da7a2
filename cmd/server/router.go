package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-api/internal/api"
	apiMiddleware "github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
)

const healthPingTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.resolver)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", userHandler.Me)
			r.Get("/users/{user_id}", userHandler.GetUser)

			r.Route("/users/{user_id}/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/{task_id}", taskHandler.GetTask)
				r.Put("/{task_id}", taskHandler.UpdateTask)
				r.Delete("/{task_id}", taskHandler.DeleteTask)
				r.Patch("/{task_id}/complete", taskHandler.ToggleTask)
			})
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Welcome to the Task API"})
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports liveness and whether the database answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
