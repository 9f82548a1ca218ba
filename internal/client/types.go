package client

import "github.com/tasklane/tasklane/internal/domain"

// TaskListResponse represents a paginated list of tasks.
type TaskListResponse struct {
	Data       []domain.Task
	Pagination *Pagination
}

// Pagination contains pagination metadata from API responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TaskUpdates contains optional fields for updating a task.
type TaskUpdates struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
}

// paginatedTaskResponse is the raw JSON structure for paginated task responses.
type paginatedTaskResponse struct {
	Data       []domain.Task `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// createTaskRequest is the JSON request body for creating a task.
type createTaskRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
}

// addDependencyRequest is the JSON request body for adding a dependency.
type addDependencyRequest struct {
	PrerequisiteID int `json:"prerequisite_id"`
}

// healthResponse is the JSON response for the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
}
