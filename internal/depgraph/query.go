package depgraph

import "github.com/tasklane/tasklane/internal/domain"

// BlockedStatus describes whether a task may start.
type BlockedStatus struct {
	Blocked bool `json:"blocked"`
	// BlockingTasks holds the unfinished prerequisites, in prerequisite order.
	BlockingTasks []domain.Task `json:"blocking_tasks"`
}

// BlockingIDs returns the ids of BlockingTasks.
func (s BlockedStatus) BlockingIDs() []int {
	ids := make([]int, len(s.BlockingTasks))
	for i, t := range s.BlockingTasks {
		ids[i] = t.ID
	}
	return ids
}

// Prerequisites returns a copy of the tasks taskID depends on.
func (g Graph) Prerequisites(taskID int) []int {
	return append([]int{}, g[taskID]...)
}

// Dependents returns the tasks that depend on taskID, in ascending id order.
// The reverse index is computed on every call.
func (g Graph) Dependents(taskID int) []int {
	dependents := []int{}
	for _, dependent := range g.dependentIDs() {
		if g.HasEdge(dependent, taskID) {
			dependents = append(dependents, dependent)
		}
	}
	return dependents
}

// IsTaskBlocked reports whether any prerequisite of taskID exists in tasks
// and is not done. Prerequisites missing from tasks never block.
func (g Graph) IsTaskBlocked(taskID int, tasks []domain.Task) BlockedStatus {
	index := indexTasks(tasks)
	status := BlockedStatus{BlockingTasks: []domain.Task{}}

	for _, p := range g[taskID] {
		task, ok := index[p]
		if !ok || task.IsDone() {
			continue
		}
		status.BlockingTasks = append(status.BlockingTasks, task)
	}

	status.Blocked = len(status.BlockingTasks) > 0
	return status
}
