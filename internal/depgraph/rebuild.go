package depgraph

import "github.com/tasklane/tasklane/internal/domain"

// Rejection is an edge Rebuild refused, with the reason.
type Rejection struct {
	Dependency domain.Dependency `json:"dependency"`
	Err        error             `json:"-"`
}

// Rebuild replays every edge of raw through AddDependency against tasks and
// returns the accepted graph. Edges naming unknown tasks, self-loops, repeats
// of an accepted edge, and edges that would close a cycle are returned as
// rejections. Edges are
// replayed in the order given by Graph.Edges, so the result is
// deterministic.
func Rebuild(raw Graph, tasks []domain.Task) (Graph, []Rejection) {
	g := New()
	var rejected []Rejection

	for _, edge := range raw.Edges() {
		if g.HasEdge(edge.DependentID, edge.PrerequisiteID) {
			rejected = append(rejected, Rejection{
				Dependency: edge,
				Err:        domain.NewDuplicateEdgeError(edge.DependentID, edge.PrerequisiteID),
			})
			continue
		}
		next, err := g.AddDependency(edge.DependentID, edge.PrerequisiteID, tasks)
		if err != nil {
			rejected = append(rejected, Rejection{Dependency: edge, Err: err})
			continue
		}
		g = next
	}
	return g, rejected
}
