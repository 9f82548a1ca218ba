// Package service implements task and dependency workflows on top of the
// dependency graph engine and the project store.
package service

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/store"
)

// state is one consistent snapshot of a project.
type state struct {
	tasks []domain.Task
	graph depgraph.Graph
}

func (st state) find(id int) (int, bool) {
	for i, t := range st.tasks {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// load reads tasks and graph. Callers that write back must hold the
// project lock.
func load(ctx context.Context, p *store.Project) (state, error) {
	tasks, err := p.LoadTasks(ctx)
	if err != nil {
		return state{}, internalError(p.Logger(), err)
	}
	g, _, err := p.LoadGraph(ctx)
	if err != nil {
		return state{}, internalError(p.Logger(), err)
	}
	return state{tasks: tasks, graph: g}, nil
}

// internalError logs the cause and hides it behind an INTERNAL_ERROR.
func internalError(logger *log.Logger, err error) error {
	logger.Error("storage failure", "err", err)
	return domain.NewInternalError(err)
}

// paginate returns the requested page of items and the total count.
func paginate(tasks []domain.Task, page, perPage int) ([]domain.Task, int) {
	total := len(tasks)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = total
	}
	start := (page - 1) * perPage
	if start >= total {
		return []domain.Task{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return tasks[start:end], total
}
