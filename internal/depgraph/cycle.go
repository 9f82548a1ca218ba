package depgraph

import "github.com/tasklane/tasklane/internal/domain"

// CycleCheck is the outcome of ValidateNoCycle.
type CycleCheck struct {
	Valid bool
	// Err is a CYCLE_DETECTED domain error when Valid is false.
	Err error
	// Cycle is [dependent, prerequisite, ..., dependent] when Valid is false.
	Cycle []int
}

// ValidateNoCycle reports whether adding dependentID -> prerequisiteID keeps
// g acyclic. It walks prerequisite edges depth first from prerequisiteID; if
// the walk reaches dependentID the new edge would close a cycle.
//
// The walk uses an explicit stack, so long chains cannot exhaust the
// goroutine stack.
func (g Graph) ValidateNoCycle(dependentID, prerequisiteID int) CycleCheck {
	visited := map[int]bool{prerequisiteID: true}
	cameFrom := make(map[int]int)
	stack := []int{prerequisiteID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == dependentID {
			cycle := append([]int{dependentID}, tracePath(cameFrom, prerequisiteID, current)...)
			return CycleCheck{
				Valid: false,
				Err:   domain.NewCycleDetectedError(cycle),
				Cycle: cycle,
			}
		}

		// Push in reverse so prerequisites are explored in list order.
		prereqs := g[current]
		for i := len(prereqs) - 1; i >= 0; i-- {
			next := prereqs[i]
			if visited[next] {
				continue
			}
			visited[next] = true
			cameFrom[next] = current
			stack = append(stack, next)
		}
	}

	return CycleCheck{Valid: true}
}

// tracePath rebuilds the walk from start to end using the cameFrom links.
func tracePath(cameFrom map[int]int, start, end int) []int {
	path := []int{end}
	for node := end; node != start; {
		node = cameFrom[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
