package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound     ErrorCode = "TASK_NOT_FOUND"
	ErrCodeSelfDependency   ErrorCode = "SELF_DEPENDENCY"
	ErrCodeCycleDetected    ErrorCode = "CYCLE_DETECTED"
	ErrCodeDuplicateEdge    ErrorCode = "DUPLICATE_DEPENDENCY"
	ErrCodeTaskBlocked      ErrorCode = "TASK_BLOCKED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeProjectNotFound  ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so callers
// can match with errors.Is(err, &DomainError{Code: ...}).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasCode reports whether err wraps a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(taskID int) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: fmt.Sprintf("Task %d not found", taskID),
		Context: map[string]interface{}{"id": taskID},
	}
}

// NewSelfDependencyError creates an error for a task depending on itself.
func NewSelfDependencyError(taskID int) *DomainError {
	return &DomainError{
		Code:    ErrCodeSelfDependency,
		Message: "A task cannot depend on itself",
		Context: map[string]interface{}{"id": taskID},
	}
}

// NewCycleDetectedError creates a cycle detected error.
// path lists the cycle starting and ending at the dependent task.
func NewCycleDetectedError(path []int) *DomainError {
	return &DomainError{
		Code:    ErrCodeCycleDetected,
		Message: fmt.Sprintf("Adding this dependency would create a cycle: %s", formatPath(path)),
		Context: map[string]interface{}{"path": path},
	}
}

// NewDuplicateEdgeError reports an edge listed more than once in one graph.
func NewDuplicateEdgeError(dependentID, prerequisiteID int) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateEdge,
		Message: fmt.Sprintf("Task %d already depends on task %d", dependentID, prerequisiteID),
		Context: map[string]interface{}{
			"dependent_id":    dependentID,
			"prerequisite_id": prerequisiteID,
		},
	}
}

// NewTaskBlockedError creates an error for starting a task whose
// prerequisites are not done yet.
func NewTaskBlockedError(taskID int, blocking []int) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskBlocked,
		Message: fmt.Sprintf("Task %d is blocked by unfinished prerequisites", taskID),
		Context: map[string]interface{}{
			"id":       taskID,
			"blocking": blocking,
		},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewProjectNotFoundError creates a project not found error.
func NewProjectNotFoundError(project string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProjectNotFound,
		Message: fmt.Sprintf("Project %s not found", project),
		Context: map[string]interface{}{"project": project},
	}
}

// NewInternalError creates an internal error.
// The cause is not exposed to clients.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
	}
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " -> ")
}
