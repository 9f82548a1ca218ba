package handler

import (
	"net/http"

	"github.com/tasklane/tasklane/internal/api/middleware"
	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/service"
	"github.com/tasklane/tasklane/internal/store"
)

// SystemHandler handles system-level operations.
type SystemHandler struct {
	manager *store.Manager
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(manager *store.Manager) *SystemHandler {
	return &SystemHandler{manager: manager}
}

// Health handles GET /v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// ListProjects handles GET /v1/projects.
func (h *SystemHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.manager.ListProjects(r.Context())
	if err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	response.OK(w, projects)
}

// ProjectSummary describes one project.
type ProjectSummary struct {
	Name         string `json:"name"`
	Tasks        int    `json:"tasks"`
	Dependencies int    `json:"dependencies"`
}

// GetProject handles GET /v1/projects/{project}.
func (h *SystemHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project := middleware.GetProject(r.Context())

	exists, err := project.Exists(r.Context())
	if err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}
	if !exists {
		response.Error(w, domain.NewProjectNotFoundError(project.Name()))
		return
	}

	_, total, err := service.NewTaskService(project).List(r.Context(), service.ListTasksInput{})
	if err != nil {
		response.Error(w, err)
		return
	}
	graph, err := service.NewDependencyService(project).Graph(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	edges := 0
	for _, pres := range graph {
		edges += len(pres)
	}

	response.OK(w, ProjectSummary{Name: project.Name(), Tasks: total, Dependencies: edges})
}
