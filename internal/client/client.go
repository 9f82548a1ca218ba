// Package client is an HTTP client for the tasklane server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/service"
)

// Client is an HTTP client for the tasklane server API.
type Client struct {
	baseURL string       // http://host:port
	project string       // Project name for URL paths
	http    *http.Client // HTTP client
}

// NewClient creates a new API client for one project. addr is host:port
// or a full base URL.
func NewClient(addr, project string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &Client{
		baseURL: baseURL,
		project: project,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// =============================================================================
// Health
// =============================================================================

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	var health healthResponse
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, http.StatusOK, &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return ErrServerUnhealthy
	}
	return nil
}

// ListProjects returns a list of all project names.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	var projects []string
	if err := c.do(ctx, http.MethodGet, "/v1/projects", nil, http.StatusOK, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// =============================================================================
// Task CRUD
// =============================================================================

// CreateTask creates a new task. An empty description is omitted.
func (c *Client) CreateTask(ctx context.Context, title, description string, status *domain.TaskStatus) (*domain.Task, error) {
	body := createTaskRequest{Title: title, Status: status}
	if description != "" {
		body.Description = &description
	}

	var task domain.Task
	if err := c.do(ctx, http.MethodPost, c.projectPath("/tasks"), body, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id int) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, c.taskPath(id, ""), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks lists tasks with optional status filtering.
func (c *Client) ListTasks(ctx context.Context, status string, page, perPage int) (*TaskListResponse, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	return c.listTasks(ctx, "/tasks", params, page, perPage)
}

// ListReadyTasks lists tasks that are not done and not blocked.
func (c *Client) ListReadyTasks(ctx context.Context, page, perPage int) (*TaskListResponse, error) {
	return c.listTasks(ctx, "/tasks/ready", url.Values{}, page, perPage)
}

func (c *Client) listTasks(ctx context.Context, path string, params url.Values, page, perPage int) (*TaskListResponse, error) {
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var resp paginatedTaskResponse
	if err := c.do(ctx, http.MethodGet, c.projectPath(path)+"?"+params.Encode(), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}

	pagination := resp.Pagination
	return &TaskListResponse{Data: resp.Data, Pagination: &pagination}, nil
}

// UpdateTask updates a task.
func (c *Client) UpdateTask(ctx context.Context, id int, updates TaskUpdates) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPatch, c.taskPath(id, ""), updates, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetStatus moves a task to status.
func (c *Client) SetStatus(ctx context.Context, id int, status domain.TaskStatus) (*domain.Task, error) {
	return c.UpdateTask(ctx, id, TaskUpdates{Status: &status})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.taskPath(id, ""), nil, http.StatusNoContent, nil)
}

// ResetTasks deletes every task in the project.
func (c *Client) ResetTasks(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, c.projectPath("/tasks"), nil, http.StatusNoContent, nil)
}

// =============================================================================
// Dependencies
// =============================================================================

// AddDependency records that dependentID requires prerequisiteID.
func (c *Client) AddDependency(ctx context.Context, dependentID, prerequisiteID int) error {
	body := addDependencyRequest{PrerequisiteID: prerequisiteID}
	return c.do(ctx, http.MethodPost, c.taskPath(dependentID, "/deps"), body, http.StatusCreated, nil)
}

// RemoveDependency removes a dependency.
func (c *Client) RemoveDependency(ctx context.Context, dependentID, prerequisiteID int) error {
	path := c.taskPath(dependentID, "/deps/"+strconv.Itoa(prerequisiteID))
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// ListDependencies lists the prerequisites of a task.
func (c *Client) ListDependencies(ctx context.Context, taskID int) (*service.Related, error) {
	var related service.Related
	if err := c.do(ctx, http.MethodGet, c.taskPath(taskID, "/deps"), nil, http.StatusOK, &related); err != nil {
		return nil, err
	}
	return &related, nil
}

// ListDependents lists the tasks waiting on a task.
func (c *Client) ListDependents(ctx context.Context, taskID int) (*service.Related, error) {
	var related service.Related
	if err := c.do(ctx, http.MethodGet, c.taskPath(taskID, "/dependents"), nil, http.StatusOK, &related); err != nil {
		return nil, err
	}
	return &related, nil
}

// GetBlocked reports whether a task is blocked and by what.
func (c *Client) GetBlocked(ctx context.Context, taskID int) (*depgraph.BlockedStatus, error) {
	var status depgraph.BlockedStatus
	if err := c.do(ctx, http.MethodGet, c.taskPath(taskID, "/blocked"), nil, http.StatusOK, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetGraph returns the project's dependency graph in wire form.
func (c *Client) GetGraph(ctx context.Context) (map[string][]int, error) {
	var graph map[string][]int
	if err := c.do(ctx, http.MethodGet, c.projectPath("/deps"), nil, http.StatusOK, &graph); err != nil {
		return nil, err
	}
	return graph, nil
}

// ImportGraph replaces the project's dependency graph with raw wire-format
// JSON.
func (c *Client) ImportGraph(ctx context.Context, data []byte) (*service.ImportResult, error) {
	req, err := c.newRequest(ctx, http.MethodPut, c.projectPath("/deps"), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result service.ImportResult
	if err := c.send(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// Helpers
// =============================================================================

// projectPath constructs a URL path with the project prefix.
func (c *Client) projectPath(path string) string {
	return "/v1/projects/" + url.PathEscape(c.project) + path
}

func (c *Client) taskPath(id int, suffix string) string {
	return c.projectPath("/tasks/" + strconv.Itoa(id) + suffix)
}

// do sends a request with an optional JSON body and decodes the response
// into out when the server answers with want.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = c.newJSONRequest(ctx, method, path, body)
	} else {
		req, err = c.newRequest(ctx, method, path, nil)
	}
	if err != nil {
		return err
	}
	return c.send(req, want, out)
}

func (c *Client) send(req *http.Request, want int, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newRequest creates a new HTTP request.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
