package depgraph

import (
	"sort"

	"github.com/tasklane/tasklane/internal/domain"
)

// Graph maps a dependent task id to its prerequisite task ids.
// A nil Graph is a valid empty graph for all read operations.
type Graph map[int][]int

// New returns an empty graph.
func New() Graph {
	return Graph{}
}

// Clone returns a deep copy of g. The result never shares slices with g.
func (g Graph) Clone() Graph {
	next := make(Graph, len(g))
	for dependent, prereqs := range g {
		next[dependent] = append([]int(nil), prereqs...)
	}
	return next
}

// Len returns the number of edges in g.
func (g Graph) Len() int {
	n := 0
	for _, prereqs := range g {
		n += len(prereqs)
	}
	return n
}

// HasEdge reports whether dependentID directly depends on prerequisiteID.
func (g Graph) HasEdge(dependentID, prerequisiteID int) bool {
	for _, p := range g[dependentID] {
		if p == prerequisiteID {
			return true
		}
	}
	return false
}

// Edges lists every edge, ordered by dependent id and then by the order in
// which prerequisites were added.
func (g Graph) Edges() []domain.Dependency {
	edges := make([]domain.Dependency, 0, g.Len())
	for _, dependent := range g.dependentIDs() {
		for _, p := range g[dependent] {
			edges = append(edges, domain.NewDependency(dependent, p))
		}
	}
	return edges
}

// Equal reports whether g and other hold the same edges, ignoring the order
// of prerequisites. Repeated prerequisites must repeat equally often.
func (g Graph) Equal(other Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	for dependent, prereqs := range g {
		theirs, ok := other[dependent]
		if !ok || len(prereqs) != len(theirs) {
			return false
		}
		counts := make(map[int]int, len(prereqs))
		for _, p := range prereqs {
			counts[p]++
		}
		for _, p := range theirs {
			if counts[p] == 0 {
				return false
			}
			counts[p]--
		}
	}
	return true
}

// dependentIDs returns the keys of g in ascending order.
func (g Graph) dependentIDs() []int {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func indexTasks(tasks []domain.Task) map[int]domain.Task {
	index := make(map[int]domain.Task, len(tasks))
	for _, t := range tasks {
		if _, ok := index[t.ID]; !ok {
			index[t.ID] = t
		}
	}
	return index
}
