package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskvault/internal/api"
	apiMiddleware "github.com/phrazzld/taskvault/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout()))
	if app.config.Server.RateLimitRequests > 0 {
		r.Use(middleware.ThrottleBacklog(
			app.config.Server.RateLimitRequests,
			app.config.Server.RateLimitBacklog,
			app.config.Server.RequestTimeout(),
		))
	}

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.config.Auth.TokenLifetime(),
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/verify", authHandler.Verify)

			// Fixed-path task routes must come before the {id} routes
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/stats", taskHandler.Stats)
			r.Get("/tasks/overdue", taskHandler.Overdue)
			r.Get("/tasks/search/{term}", taskHandler.Search)
			r.Get("/tasks/priority/{priority}", taskHandler.ByPriority)

			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Patch("/tasks/{id}/toggle", taskHandler.Toggle)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
