package depgraph

import "github.com/tasklane/tasklane/internal/domain"

// AddDependency returns a graph in which dependentID requires prerequisiteID.
//
// Both ids must name tasks in tasks. The edge is rejected if it would make a
// task depend on itself or close a cycle. Adding an edge that already exists
// succeeds without changing anything. On error the receiver is returned as is.
func (g Graph) AddDependency(dependentID, prerequisiteID int, tasks []domain.Task) (Graph, error) {
	index := indexTasks(tasks)
	if _, ok := index[dependentID]; !ok {
		return g, domain.NewTaskNotFoundError(dependentID)
	}
	if _, ok := index[prerequisiteID]; !ok {
		return g, domain.NewTaskNotFoundError(prerequisiteID)
	}

	if dependentID == prerequisiteID {
		return g, domain.NewSelfDependencyError(dependentID)
	}

	if g.HasEdge(dependentID, prerequisiteID) {
		return g.Clone(), nil
	}

	if check := g.ValidateNoCycle(dependentID, prerequisiteID); !check.Valid {
		return g, check.Err
	}

	next := g.Clone()
	next[dependentID] = append(next[dependentID], prerequisiteID)
	return next, nil
}

// RemoveDependency returns a graph without the edge dependentID ->
// prerequisiteID. Missing edges and unknown ids are ignored.
func (g Graph) RemoveDependency(dependentID, prerequisiteID int) Graph {
	next := g.Clone()
	prereqs, ok := next[dependentID]
	if !ok {
		return next
	}

	kept := without(prereqs, prerequisiteID)
	if len(kept) == 0 {
		delete(next, dependentID)
	} else {
		next[dependentID] = kept
	}
	return next
}

// RemoveDependenciesForTask returns a graph with no trace of taskID, neither
// as a dependent nor as anyone's prerequisite. Call it when a task is deleted.
func (g Graph) RemoveDependenciesForTask(taskID int) Graph {
	next := make(Graph, len(g))
	for dependent, prereqs := range g {
		if dependent == taskID {
			continue
		}
		if kept := without(prereqs, taskID); len(kept) > 0 {
			next[dependent] = kept
		}
	}
	return next
}

// without returns a fresh copy of ids with every occurrence of id removed.
func without(ids []int, id int) []int {
	kept := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
