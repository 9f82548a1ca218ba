package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/domain"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 500

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, "title is required")
	} else if len(r.Title) > MaxTitleLength {
		errors = append(errors, fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}

	if r.Status != nil && !r.Status.IsValid() {
		errors = append(errors, statusError())
	}

	return errors
}

// UpdateTaskRequest represents a request to update a task.
type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			errors = append(errors, "title cannot be empty")
		} else if len(*r.Title) > MaxTitleLength {
			errors = append(errors, fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
		}
	}

	if r.Status != nil && !r.Status.IsValid() {
		errors = append(errors, statusError())
	}

	return errors
}

func statusError() string {
	names := make([]string, len(domain.ValidStatuses))
	for i, s := range domain.ValidStatuses {
		names[i] = string(s)
	}
	return "status must be one of " + strings.Join(names, ", ")
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ParseID reads a positive integer task id from the named URL parameter.
func ParseID(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError([]string{fmt.Sprintf("%s must be a positive integer, got %q", param, raw)})
	}
	return id, nil
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}

// ParseStatus extracts the status filter from query parameters. An unknown
// status is a validation error rather than an ignored filter.
func ParseStatus(r *http.Request) (*domain.TaskStatus, error) {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil, nil
	}

	status := domain.TaskStatus(s)
	if !status.IsValid() {
		return nil, domain.NewValidationError([]string{statusError()})
	}
	return &status, nil
}
