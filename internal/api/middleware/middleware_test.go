package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasklane/tasklane/internal/api/middleware"
	"github.com/tasklane/tasklane/internal/api/response"
	"github.com/tasklane/tasklane/internal/kv"
	"github.com/tasklane/tasklane/internal/store"
)

func TestRecovery_PanicReturns500(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	// Handler that panics
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong!")
	})

	handler := middleware.Recovery(logger)(panicHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}

	var resp response.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code 'INTERNAL_ERROR', got %q", resp.Error.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestLogging_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	// Handler that returns 201
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	wrapped := chimiddleware.RequestID(middleware.Logging(logger)(handler))

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}

	out := buf.String()
	for _, want := range []string{"GET", "/test", "status=201", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestProjectContext(t *testing.T) {
	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	manager := store.NewManager(s, log.New(io.Discard))
	defer manager.Close()

	var got *store.Project
	r := chi.NewRouter()
	r.Route("/p/{project}", func(r chi.Router) {
		r.Use(middleware.ProjectContext(manager))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			got = middleware.GetProject(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	tests := []struct {
		name    string
		project string
		status  int
	}{
		{"valid", "my-project_1", http.StatusOK},
		{"invalid characters", "bad.name", http.StatusBadRequest},
		{"too long", strings.Repeat("a", 65), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", "/p/"+tt.project+"/", nil))

			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.status == http.StatusOK && (got == nil || got.Name() != tt.project) {
				t.Errorf("project = %v, want %q", got, tt.project)
			}
		})
	}
}

func TestGetProject_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if p := middleware.GetProject(req.Context()); p != nil {
		t.Errorf("GetProject = %v, want nil", p)
	}
}
