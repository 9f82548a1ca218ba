package service

import (
	"context"
	"sort"
	"time"

	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/store"
)

// TaskService handles task business logic.
type TaskService struct {
	project *store.Project
}

// NewTaskService creates a new TaskService.
func NewTaskService(project *store.Project) *TaskService {
	return &TaskService{project: project}
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *domain.TaskStatus
}

// Create creates a new task. New tasks have no prerequisites, so any
// starting status is allowed.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	s.project.Lock()
	defer s.project.Unlock()

	st, err := load(ctx, s.project)
	if err != nil {
		return nil, err
	}

	id, err := s.project.NextID(ctx)
	if err != nil {
		return nil, internalError(s.project.Logger(), err)
	}

	task := domain.NewTask(id, input.Title)
	task.Description = input.Description
	if input.Status != nil {
		task.Status = *input.Status
	}

	if err := s.project.SaveTasks(ctx, append(st.tasks, task)); err != nil {
		return nil, internalError(s.project.Logger(), err)
	}

	s.project.Logger().Debug("task created", "id", task.ID)
	return &task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id int) (*domain.Task, error) {
	tasks, err := s.project.LoadTasks(ctx)
	if err != nil {
		return nil, internalError(s.project.Logger(), err)
	}
	for _, t := range tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, domain.NewTaskNotFoundError(id)
}

// ListTasksInput contains the input for listing tasks.
type ListTasksInput struct {
	Status  *domain.TaskStatus
	Page    int
	PerPage int
}

// List retrieves tasks ordered by ID with pagination.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]domain.Task, int, error) {
	tasks, err := s.project.LoadTasks(ctx)
	if err != nil {
		return nil, 0, internalError(s.project.Logger(), err)
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if input.Status == nil || t.Status == *input.Status {
			filtered = append(filtered, t)
		}
	}
	sortByID(filtered)

	page, total := paginate(filtered, input.Page, input.PerPage)
	return page, total, nil
}

// ListReady retrieves tasks that are not done and have every existing
// prerequisite done.
func (s *TaskService) ListReady(ctx context.Context, page, perPage int) ([]domain.Task, int, error) {
	st, err := load(ctx, s.project)
	if err != nil {
		return nil, 0, err
	}

	ready := make([]domain.Task, 0, len(st.tasks))
	for _, t := range st.tasks {
		if t.IsDone() {
			continue
		}
		if st.graph.IsTaskBlocked(t.ID, st.tasks).Blocked {
			continue
		}
		ready = append(ready, t)
	}
	sortByID(ready)

	items, total := paginate(ready, page, perPage)
	return items, total, nil
}

// UpdateTaskInput contains the input for updating a task.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// Update updates a task. Moving a task into a started status fails with
// TASK_BLOCKED while any of its prerequisites is unfinished.
func (s *TaskService) Update(ctx context.Context, id int, input UpdateTaskInput) (*domain.Task, error) {
	s.project.Lock()
	defer s.project.Unlock()

	st, err := load(ctx, s.project)
	if err != nil {
		return nil, err
	}

	i, ok := st.find(id)
	if !ok {
		return nil, domain.NewTaskNotFoundError(id)
	}
	task := st.tasks[i]

	if input.Status != nil && *input.Status != task.Status && input.Status.IsStarted() {
		if blocked := st.graph.IsTaskBlocked(id, st.tasks); blocked.Blocked {
			return nil, domain.NewTaskBlockedError(id, blocked.BlockingIDs())
		}
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	task.UpdatedAt = time.Now().UTC()
	st.tasks[i] = task

	if err := s.project.SaveTasks(ctx, st.tasks); err != nil {
		return nil, internalError(s.project.Logger(), err)
	}
	return &task, nil
}

// Delete deletes a task and removes it from the dependency graph in both
// roles.
func (s *TaskService) Delete(ctx context.Context, id int) error {
	s.project.Lock()
	defer s.project.Unlock()

	st, err := load(ctx, s.project)
	if err != nil {
		return err
	}

	i, ok := st.find(id)
	if !ok {
		return domain.NewTaskNotFoundError(id)
	}
	remaining := append(st.tasks[:i:i], st.tasks[i+1:]...)

	// Graph first: a stale prerequisite is harmless, a dangling task is not.
	if err := s.project.SaveGraph(ctx, st.graph.RemoveDependenciesForTask(id)); err != nil {
		return internalError(s.project.Logger(), err)
	}
	if err := s.project.SaveTasks(ctx, remaining); err != nil {
		return internalError(s.project.Logger(), err)
	}

	s.project.Logger().Debug("task deleted", "id", id)
	return nil
}

// Reset deletes every task and the dependency graph with them.
func (s *TaskService) Reset(ctx context.Context) error {
	s.project.Lock()
	defer s.project.Unlock()

	if err := s.project.Reset(ctx); err != nil {
		return internalError(s.project.Logger(), err)
	}
	return nil
}

func sortByID(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
}
