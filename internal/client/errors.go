package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"

	"github.com/tasklane/tasklane/internal/domain"
)

// Client-specific errors.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// apiErrorResponse wraps the error in the API response format.
type apiErrorResponse struct {
	Error APIError `json:"error"`
}

// parseErrorResponse parses an error response from the API into a domain
// error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return toDomainError(&apiErr.Error)
}

// toDomainError rebuilds the domain error the server reported. Known codes
// go through their constructors so messages match server-side errors.
func toDomainError(apiErr *APIError) error {
	switch domain.ErrorCode(apiErr.Code) {
	case domain.ErrCodeTaskNotFound:
		if id, ok := extractInt(apiErr.Context, "id"); ok {
			return domain.NewTaskNotFoundError(id)
		}
	case domain.ErrCodeSelfDependency:
		if id, ok := extractInt(apiErr.Context, "id"); ok {
			return domain.NewSelfDependencyError(id)
		}
	case domain.ErrCodeCycleDetected:
		return domain.NewCycleDetectedError(extractIntSlice(apiErr.Context, "path"))
	case domain.ErrCodeTaskBlocked:
		if id, ok := extractInt(apiErr.Context, "id"); ok {
			return domain.NewTaskBlockedError(id, extractIntSlice(apiErr.Context, "blocking"))
		}
	case domain.ErrCodeValidationFailed:
		return domain.NewValidationError(extractStringSlice(apiErr.Context, "details"))
	case domain.ErrCodeProjectNotFound:
		project, _ := apiErr.Context["project"].(string)
		return domain.NewProjectNotFoundError(project)
	}

	return &domain.DomainError{
		Code:    domain.ErrorCode(apiErr.Code),
		Message: apiErr.Message,
		Context: apiErr.Context,
	}
}

// extractInt reads a JSON number from a context map.
func extractInt(ctx map[string]interface{}, key string) (int, bool) {
	f, ok := ctx[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// extractIntSlice reads an array of JSON numbers from a context map.
func extractIntSlice(ctx map[string]interface{}, key string) []int {
	slice, ok := ctx[key].([]interface{})
	if !ok {
		return nil
	}

	result := make([]int, 0, len(slice))
	for _, v := range slice {
		if f, ok := v.(float64); ok {
			result = append(result, int(f))
		}
	}
	return result
}

// extractStringSlice extracts a string slice from a context map.
func extractStringSlice(ctx map[string]interface{}, key string) []string {
	// JSON unmarshals arrays as []interface{}
	slice, ok := ctx[key].([]interface{})
	if !ok {
		return nil
	}

	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
