package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/domain"
)

// Recovery catches panics and returns a 500 error.
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "err", err, "path", r.URL.Path, "stack", string(debug.Stack()))
					response.Error(w, domain.NewInternalError(nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
