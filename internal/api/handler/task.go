package handler

import (
	"net/http"

	"github.com/tasklane/tasklane/internal/api/middleware"
	"github.com/tasklane/tasklane/internal/api/request"
	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/service"
)

// TaskHandler handles task CRUD operations.
type TaskHandler struct{}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

func taskService(r *http.Request) *service.TaskService {
	return service.NewTaskService(middleware.GetProject(r.Context()))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := taskService(r).Create(r.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	task, err := taskService(r).Get(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	status, err := request.ParseStatus(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	tasks, total, err := taskService(r).List(r.Context(), service.ListTasksInput{
		Status:  status,
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// ListReadyTasks handles GET /tasks/ready.
func (h *TaskHandler) ListReadyTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	tasks, total, err := taskService(r).ListReady(r.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req request.UpdateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := taskService(r).Update(r.Context(), taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.ParseID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := taskService(r).Delete(r.Context(), taskID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// ResetTasks handles DELETE /tasks.
func (h *TaskHandler) ResetTasks(w http.ResponseWriter, r *http.Request) {
	if err := taskService(r).Reset(r.Context()); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
