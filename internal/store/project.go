package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/kv"
)

const (
	tasksSuffix = "tasks"
	depsSuffix  = "deps"
	seqSuffix   = "seq"
)

// Project reads and writes one project's state.
//
// The kv store offers no transactions, so callers that read, modify and
// write back must hold Lock for the whole cycle.
type Project struct {
	name   string
	kv     kv.Store
	lock   *sync.Mutex
	logger *log.Logger
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// Logger returns the project-scoped logger.
func (p *Project) Logger() *log.Logger {
	return p.logger
}

// Lock serializes access to the project with every other handle for it.
func (p *Project) Lock() {
	p.lock.Lock()
}

// Unlock releases Lock.
func (p *Project) Unlock() {
	p.lock.Unlock()
}

func (p *Project) key(suffix string) string {
	return keyPrefix + p.name + "/" + suffix
}

// Exists reports whether the project has a task list.
func (p *Project) Exists(ctx context.Context) (bool, error) {
	_, err := p.kv.Get(ctx, p.key(tasksSuffix))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LoadTasks returns the task list, empty if the project has none.
func (p *Project) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	data, err := p.kv.Get(ctx, p.key(tasksSuffix))
	if errors.Is(err, kv.ErrNotFound) {
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// SaveTasks replaces the task list.
func (p *Project) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := p.kv.Set(ctx, p.key(tasksSuffix), data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// LoadGraph returns the dependency graph. Corrupted entries are dropped so
// a bad write cannot take the task list down with it; the report says what
// was lost.
func (p *Project) LoadGraph(ctx context.Context) (depgraph.Graph, depgraph.Report, error) {
	data, err := p.kv.Get(ctx, p.key(depsSuffix))
	if errors.Is(err, kv.ErrNotFound) {
		return depgraph.New(), depgraph.Report{}, nil
	}
	if err != nil {
		return nil, depgraph.Report{}, fmt.Errorf("failed to load dependencies: %w", err)
	}

	g, report := depgraph.Unmarshal(data)
	if !report.Clean() {
		p.logger.Warn("repaired dependency graph on load",
			"invalid_input", report.InvalidInput,
			"dropped_entries", report.DroppedEntries,
			"dropped_values", report.DroppedValues,
		)
	}
	return g, report, nil
}

// SaveGraph replaces the dependency graph.
func (p *Project) SaveGraph(ctx context.Context, g depgraph.Graph) error {
	data, err := depgraph.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode dependencies: %w", err)
	}
	if err := p.kv.Set(ctx, p.key(depsSuffix), data); err != nil {
		return fmt.Errorf("failed to save dependencies: %w", err)
	}
	return nil
}

// NextID reserves and returns the next task id. IDs start at 1 and are
// never reused within a project, even after Reset.
func (p *Project) NextID(ctx context.Context) (int, error) {
	last := 0
	data, err := p.kv.Get(ctx, p.key(seqSuffix))
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("failed to load id sequence: %w", err)
	default:
		if last, err = strconv.Atoi(string(data)); err != nil {
			return 0, fmt.Errorf("corrupt id sequence %q: %w", data, err)
		}
	}

	next := last + 1
	if err := p.kv.Set(ctx, p.key(seqSuffix), []byte(strconv.Itoa(next))); err != nil {
		return 0, fmt.Errorf("failed to save id sequence: %w", err)
	}
	return next, nil
}

// Reset deletes the task list together with its dependency graph.
func (p *Project) Reset(ctx context.Context) error {
	if err := p.kv.Delete(ctx, p.key(tasksSuffix), p.key(depsSuffix)); err != nil {
		return fmt.Errorf("failed to reset project: %w", err)
	}
	p.logger.Info("project reset")
	return nil
}
