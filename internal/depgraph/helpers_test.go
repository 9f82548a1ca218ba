package depgraph

import (
	"reflect"
	"testing"

	"github.com/tasklane/tasklane/internal/domain"
)

func task(id int, status domain.TaskStatus) domain.Task {
	return domain.Task{ID: id, Title: "task", Status: status}
}

// todoTasks returns tasks 1..n, all in todo.
func todoTasks(n int) []domain.Task {
	tasks := make([]domain.Task, n)
	for i := range tasks {
		tasks[i] = task(i+1, domain.StatusTodo)
	}
	return tasks
}

func mustAdd(t *testing.T, g Graph, dependent, prereq int, tasks []domain.Task) Graph {
	t.Helper()
	next, err := g.AddDependency(dependent, prereq, tasks)
	if err != nil {
		t.Fatalf("AddDependency(%d, %d) unexpected error: %v", dependent, prereq, err)
	}
	return next
}

func assertGraph(t *testing.T, got, want Graph) {
	t.Helper()
	if !reflect.DeepEqual(map[int][]int(got), map[int][]int(want)) {
		t.Errorf("graph = %v, want %v", got, want)
	}
}
