package domain

// Dependency is a single edge of a project's dependency graph.
// The dependent task cannot start until the prerequisite task is done.
type Dependency struct {
	DependentID    int `json:"dependent_id"`
	PrerequisiteID int `json:"prerequisite_id"`
}

// NewDependency creates a new dependency edge.
func NewDependency(dependentID, prerequisiteID int) Dependency {
	return Dependency{
		DependentID:    dependentID,
		PrerequisiteID: prerequisiteID,
	}
}
