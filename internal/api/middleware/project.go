package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/store"
)

type contextKey string

// ProjectKey is the context key for the project handle.
const ProjectKey contextKey = "project"

// Valid project name pattern: alphanumeric, hyphens, underscores, 1-64 chars.
var validProjectName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidProjectName reports whether name can be used as a project name.
func ValidProjectName(name string) bool {
	return validProjectName.MatchString(name)
}

// ProjectContext validates the project name and injects the project handle.
func ProjectContext(manager *store.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "project")

			if !ValidProjectName(name) {
				response.Error(w, domain.NewValidationError([]string{
					"Invalid project name. Must be 1-64 alphanumeric characters, hyphens, or underscores.",
				}))
				return
			}

			ctx := context.WithValue(r.Context(), ProjectKey, manager.Project(name))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProject retrieves the project handle from context.
func GetProject(ctx context.Context) *store.Project {
	if p, ok := ctx.Value(ProjectKey).(*store.Project); ok {
		return p
	}
	return nil
}
