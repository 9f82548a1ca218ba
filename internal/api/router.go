package api

import (
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasklane/tasklane/internal/api/handler"
	"github.com/tasklane/tasklane/internal/api/middleware"
	"github.com/tasklane/tasklane/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(manager *store.Manager, logger *log.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(manager)
	taskHandler := handler.NewTaskHandler()
	dependencyHandler := handler.NewDependencyHandler()

	// System routes (no project context needed)
	r.Get("/v1/health", systemHandler.Health)
	r.Get("/v1/projects", systemHandler.ListProjects)

	// Project-scoped routes
	r.Route("/v1/projects/{project}", func(r chi.Router) {
		r.Use(middleware.ProjectContext(manager))

		r.Get("/", systemHandler.GetProject)

		// Task CRUD
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Delete("/tasks", taskHandler.ResetTasks)
		r.Get("/tasks/ready", taskHandler.ListReadyTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Dependencies
		r.Get("/tasks/{id}/deps", dependencyHandler.ListDependencies)
		r.Post("/tasks/{id}/deps", dependencyHandler.AddDependency)
		r.Delete("/tasks/{id}/deps/{depID}", dependencyHandler.RemoveDependency)
		r.Get("/tasks/{id}/dependents", dependencyHandler.ListDependents)
		r.Get("/tasks/{id}/blocked", dependencyHandler.GetBlocked)
		r.Get("/deps", dependencyHandler.GetGraph)
		r.Put("/deps", dependencyHandler.ImportGraph)
	})

	return r
}
