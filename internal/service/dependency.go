package service

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/store"
)

// DependencyService handles dependency business logic.
type DependencyService struct {
	project *store.Project
}

// NewDependencyService creates a new DependencyService.
func NewDependencyService(project *store.Project) *DependencyService {
	return &DependencyService{project: project}
}

// Add records that dependentID requires prerequisiteID to be done.
// Adding an existing edge is a no-op.
func (s *DependencyService) Add(ctx context.Context, dependentID, prerequisiteID int) error {
	s.project.Lock()
	defer s.project.Unlock()

	st, err := load(ctx, s.project)
	if err != nil {
		return err
	}

	next, err := st.graph.AddDependency(dependentID, prerequisiteID, st.tasks)
	if err != nil {
		return err
	}
	if next.Equal(st.graph) {
		return nil
	}

	if err := s.project.SaveGraph(ctx, next); err != nil {
		return internalError(s.project.Logger(), err)
	}

	s.project.Logger().Debug("dependency added", "dependent", dependentID, "prerequisite", prerequisiteID)
	return nil
}

// Remove deletes an edge. Removing an edge that does not exist succeeds.
func (s *DependencyService) Remove(ctx context.Context, dependentID, prerequisiteID int) error {
	s.project.Lock()
	defer s.project.Unlock()

	st, err := load(ctx, s.project)
	if err != nil {
		return err
	}

	if !st.graph.HasEdge(dependentID, prerequisiteID) {
		return nil
	}

	if err := s.project.SaveGraph(ctx, st.graph.RemoveDependency(dependentID, prerequisiteID)); err != nil {
		return internalError(s.project.Logger(), err)
	}

	s.project.Logger().Debug("dependency removed", "dependent", dependentID, "prerequisite", prerequisiteID)
	return nil
}

// Related lists the ids on one side of a task's edges along with the
// tasks they resolve to. Ids of deleted tasks stay in IDs but have no
// entry in Tasks.
type Related struct {
	TaskID int           `json:"task_id"`
	IDs    []int         `json:"ids"`
	Tasks  []domain.Task `json:"tasks"`
}

// Prerequisites lists what taskID waits on, in insertion order.
func (s *DependencyService) Prerequisites(ctx context.Context, taskID int) (*Related, error) {
	st, err := s.loadFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ids := st.graph.Prerequisites(taskID)
	return &Related{TaskID: taskID, IDs: ids, Tasks: resolve(st, ids)}, nil
}

// Dependents lists the tasks that wait on taskID, ordered by id.
func (s *DependencyService) Dependents(ctx context.Context, taskID int) (*Related, error) {
	st, err := s.loadFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ids := st.graph.Dependents(taskID)
	return &Related{TaskID: taskID, IDs: ids, Tasks: resolve(st, ids)}, nil
}

// Blocked reports whether taskID has unfinished prerequisites.
func (s *DependencyService) Blocked(ctx context.Context, taskID int) (depgraph.BlockedStatus, error) {
	st, err := s.loadFor(ctx, taskID)
	if err != nil {
		return depgraph.BlockedStatus{}, err
	}
	return st.graph.IsTaskBlocked(taskID, st.tasks), nil
}

// Graph returns the project's graph in wire form.
func (s *DependencyService) Graph(ctx context.Context) (map[string][]int, error) {
	st, err := load(ctx, s.project)
	if err != nil {
		return nil, err
	}
	return depgraph.Serialize(st.graph), nil
}

// Rejected is an edge Import refused, with the reason.
type Rejected struct {
	DependentID    int              `json:"dependent_id"`
	PrerequisiteID int              `json:"prerequisite_id"`
	Code           domain.ErrorCode `json:"code"`
	Message        string           `json:"message"`
}

// ImportResult describes what Import kept and what it dropped.
type ImportResult struct {
	Dependencies   map[string][]int `json:"dependencies"`
	DroppedEntries int              `json:"dropped_entries"`
	DroppedValues  int              `json:"dropped_values"`
	Rejected       []Rejected       `json:"rejected"`
}

// Import replaces the project's graph with one decoded from raw JSON.
// Malformed parts are dropped, then every edge is replayed against the
// current tasks so the stored graph satisfies the same rules as Add.
func (s *DependencyService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	raw, report := depgraph.Unmarshal(data)
	if report.InvalidInput {
		return nil, domain.NewValidationError([]string{"dependencies must be a JSON object mapping task ids to arrays of ids"})
	}

	s.project.Lock()
	defer s.project.Unlock()

	tasks, err := s.project.LoadTasks(ctx)
	if err != nil {
		return nil, internalError(s.project.Logger(), err)
	}

	g, rejections := depgraph.Rebuild(raw, tasks)
	if err := s.project.SaveGraph(ctx, g); err != nil {
		return nil, internalError(s.project.Logger(), err)
	}

	result := &ImportResult{
		Dependencies:   depgraph.Serialize(g),
		DroppedEntries: report.DroppedEntries,
		DroppedValues:  report.DroppedValues,
		Rejected:       make([]Rejected, 0, len(rejections)),
	}
	for _, r := range rejections {
		rej := Rejected{
			DependentID:    r.Dependency.DependentID,
			PrerequisiteID: r.Dependency.PrerequisiteID,
			Code:           domain.ErrCodeInternalError,
			Message:        r.Err.Error(),
		}
		var de *domain.DomainError
		if errors.As(r.Err, &de) {
			rej.Code = de.Code
			rej.Message = de.Message
		}
		result.Rejected = append(result.Rejected, rej)
	}

	s.project.Logger().Info("dependencies imported",
		"edges", len(g.Edges()),
		"rejected", len(result.Rejected),
		"dropped_entries", report.DroppedEntries,
		"dropped_values", report.DroppedValues,
	)
	return result, nil
}

// loadFor loads the project and checks that taskID exists.
func (s *DependencyService) loadFor(ctx context.Context, taskID int) (state, error) {
	st, err := load(ctx, s.project)
	if err != nil {
		return state{}, err
	}
	if _, ok := st.find(taskID); !ok {
		return state{}, domain.NewTaskNotFoundError(taskID)
	}
	return st, nil
}

func resolve(st state, ids []int) []domain.Task {
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if i, ok := st.find(id); ok {
			tasks = append(tasks, st.tasks[i])
		}
	}
	return tasks
}
