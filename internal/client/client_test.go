package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/api"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/kv"
	"github.com/tasklane/tasklane/internal/store"
)

// newTestServer runs the real router over a temporary SQLite store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	logger := log.New(io.Discard)
	manager := store.NewManager(s, logger)

	server := httptest.NewServer(api.NewRouter(manager, logger))
	t.Cleanup(func() {
		server.Close()
		manager.Close()
	})
	return server
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(newTestServer(t).URL, "test-project")
}

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		expected string
	}{
		{"host and port", "localhost:7432", "http://localhost:7432"},
		{"full url", "http://10.0.0.5:9090/", "http://10.0.0.5:9090"},
		{"https url", "https://tasks.example.com", "https://tasks.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.addr, "test-project")
			if c.baseURL != tt.expected {
				t.Errorf("expected baseURL %q, got %q", tt.expected, c.baseURL)
			}
		})
	}
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t)

	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}

func TestClient_ServerNotRunning(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c := NewClient(addr, "test-project")
	if err := c.Health(context.Background()); !errors.Is(err, ErrServerNotRunning) {
		t.Errorf("expected ErrServerNotRunning, got %v", err)
	}
}

func TestClient_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	task, err := c.CreateTask(ctx, "Write docs", "all of them", nil)
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if task.ID != 1 || task.Status != domain.StatusTodo {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Description == nil || *task.Description != "all of them" {
		t.Errorf("expected description to round trip, got %v", task.Description)
	}

	backlog := domain.StatusBacklog
	if _, err := c.CreateTask(ctx, "Later", "", &backlog); err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}

	got, err := c.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask error: %v", err)
	}
	if got.Title != "Write docs" {
		t.Errorf("expected title 'Write docs', got %q", got.Title)
	}

	list, err := c.ListTasks(ctx, "backlog", 1, 10)
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != 2 || list.Pagination.Total != 1 {
		t.Errorf("unexpected backlog list %+v", list)
	}

	title := "Write more docs"
	updated, err := c.UpdateTask(ctx, task.ID, TaskUpdates{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	if updated.Title != title {
		t.Errorf("expected title %q, got %q", title, updated.Title)
	}

	if err := c.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}
	_, err = c.GetTask(ctx, task.ID)
	if !domain.HasCode(err, domain.ErrCodeTaskNotFound) {
		t.Errorf("expected TASK_NOT_FOUND after delete, got %v", err)
	}

	projects, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects error: %v", err)
	}
	if !reflect.DeepEqual(projects, []string{"test-project"}) {
		t.Errorf("expected [test-project], got %v", projects)
	}

	if err := c.ResetTasks(ctx); err != nil {
		t.Fatalf("ResetTasks error: %v", err)
	}
	list, err = c.ListTasks(ctx, "", 1, 10)
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	if len(list.Data) != 0 {
		t.Errorf("expected no tasks after reset, got %d", len(list.Data))
	}
}

func TestClient_Dependencies(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, title := range []string{"design", "build", "ship"} {
		if _, err := c.CreateTask(ctx, title, "", nil); err != nil {
			t.Fatalf("CreateTask error: %v", err)
		}
	}

	if err := c.AddDependency(ctx, 2, 1); err != nil {
		t.Fatalf("AddDependency error: %v", err)
	}
	if err := c.AddDependency(ctx, 3, 2); err != nil {
		t.Fatalf("AddDependency error: %v", err)
	}

	err := c.AddDependency(ctx, 1, 3)
	var de *domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeCycleDetected {
		t.Fatalf("expected CYCLE_DETECTED, got %v", err)
	}
	if !reflect.DeepEqual(de.Context["path"], []int{1, 3, 2, 1}) {
		t.Errorf("expected path [1 3 2 1], got %v", de.Context["path"])
	}

	err = c.AddDependency(ctx, 2, 2)
	if !domain.HasCode(err, domain.ErrCodeSelfDependency) {
		t.Errorf("expected SELF_DEPENDENCY, got %v", err)
	}

	deps, err := c.ListDependencies(ctx, 3)
	if err != nil {
		t.Fatalf("ListDependencies error: %v", err)
	}
	if !reflect.DeepEqual(deps.IDs, []int{2}) {
		t.Errorf("expected prerequisites [2], got %v", deps.IDs)
	}

	dependents, err := c.ListDependents(ctx, 1)
	if err != nil {
		t.Fatalf("ListDependents error: %v", err)
	}
	if !reflect.DeepEqual(dependents.IDs, []int{2}) {
		t.Errorf("expected dependents [2], got %v", dependents.IDs)
	}

	blocked, err := c.GetBlocked(ctx, 2)
	if err != nil {
		t.Fatalf("GetBlocked error: %v", err)
	}
	if !blocked.Blocked || !reflect.DeepEqual(blocked.BlockingIDs(), []int{1}) {
		t.Errorf("unexpected blocked status %+v", blocked)
	}

	_, err = c.SetStatus(ctx, 2, domain.StatusProgress)
	if !errors.As(err, &de) || de.Code != domain.ErrCodeTaskBlocked {
		t.Fatalf("expected TASK_BLOCKED, got %v", err)
	}
	if !reflect.DeepEqual(de.Context["blocking"], []int{1}) {
		t.Errorf("expected blocking [1], got %v", de.Context["blocking"])
	}

	ready, err := c.ListReadyTasks(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListReadyTasks error: %v", err)
	}
	if len(ready.Data) != 1 || ready.Data[0].ID != 1 {
		t.Errorf("expected only task 1 ready, got %+v", ready.Data)
	}

	if err := c.RemoveDependency(ctx, 3, 2); err != nil {
		t.Fatalf("RemoveDependency error: %v", err)
	}

	graph, err := c.GetGraph(ctx)
	if err != nil {
		t.Fatalf("GetGraph error: %v", err)
	}
	if !reflect.DeepEqual(graph, map[string][]int{"2": {1}}) {
		t.Errorf("unexpected graph %v", graph)
	}
}

func TestClient_ImportGraph(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for i := 0; i < 2; i++ {
		if _, err := c.CreateTask(ctx, "task", "", nil); err != nil {
			t.Fatalf("CreateTask error: %v", err)
		}
	}

	result, err := c.ImportGraph(ctx, []byte(`{"2":[1,"junk"],"bad":[1]}`))
	if err != nil {
		t.Fatalf("ImportGraph error: %v", err)
	}
	if !reflect.DeepEqual(result.Dependencies, map[string][]int{"2": {1}}) {
		t.Errorf("unexpected dependencies %v", result.Dependencies)
	}
	if result.DroppedEntries != 1 || result.DroppedValues != 1 {
		t.Errorf("expected 1 dropped entry and value, got %d and %d", result.DroppedEntries, result.DroppedValues)
	}

	_, err = c.ImportGraph(ctx, []byte(`not json`))
	if !domain.HasCode(err, domain.ErrCodeValidationFailed) {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestParseErrorResponse_NonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "p")
	err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		t.Errorf("expected plain error for non-JSON body, got domain error %v", de)
	}
}

func TestToDomainError_UnknownCode(t *testing.T) {
	err := toDomainError(&APIError{Code: "SOMETHING_NEW", Message: "new failure"})

	var de *domain.DomainError
	if !errors.As(err, &de) || de.Code != "SOMETHING_NEW" || de.Message != "new failure" {
		t.Errorf("unexpected error %v", err)
	}
}
