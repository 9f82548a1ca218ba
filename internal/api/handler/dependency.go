package handler

import (
	"io"
	"net/http"

	"github.com/tasklane/tasklane/internal/api/middleware"
	"github.com/tasklane/tasklane/internal/api/request"
	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/service"
)

// MaxGraphBody bounds the size of an imported graph document.
const MaxGraphBody = 4 << 20

// DependencyHandler handles dependency operations.
type DependencyHandler struct{}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler() *DependencyHandler {
	return &DependencyHandler{}
}

func dependencyService(r *http.Request) *service.DependencyService {
	return service.NewDependencyService(middleware.GetProject(r.Context()))
}

// ListDependencies handles GET /tasks/{id}/deps.
func (h *DependencyHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	related, err := dependencyService(r).Prerequisites(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, related)
}

// ListDependents handles GET /tasks/{id}/dependents.
func (h *DependencyHandler) ListDependents(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	related, err := dependencyService(r).Dependents(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, related)
}

// GetBlocked handles GET /tasks/{id}/blocked.
func (h *DependencyHandler) GetBlocked(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	status, err := dependencyService(r).Blocked(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, status)
}

// AddDependency handles POST /tasks/{id}/deps.
func (h *DependencyHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req request.AddDependencyRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	if err := dependencyService(r).Add(r.Context(), taskID, req.PrerequisiteID); err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, domain.NewDependency(taskID, req.PrerequisiteID))
}

// RemoveDependency handles DELETE /tasks/{id}/deps/{depID}.
func (h *DependencyHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	depID, err := request.ParseID(r, "depID")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := dependencyService(r).Remove(r.Context(), taskID, depID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// GetGraph handles GET /deps.
func (h *DependencyHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := dependencyService(r).Graph(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, graph)
}

// ImportGraph handles PUT /deps.
func (h *DependencyHandler) ImportGraph(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxGraphBody))
	if err != nil {
		response.Error(w, domain.NewValidationError([]string{"Request body too large or unreadable"}))
		return
	}

	result, err := dependencyService(r).Import(r.Context(), body)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}
