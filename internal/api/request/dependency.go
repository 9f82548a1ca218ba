package request

// AddDependencyRequest represents a request to add a dependency. The
// dependent is the task in the URL.
type AddDependencyRequest struct {
	PrerequisiteID int `json:"prerequisite_id"`
}

// Validate validates the add dependency request.
func (r *AddDependencyRequest) Validate() []string {
	var errors []string

	if r.PrerequisiteID <= 0 {
		errors = append(errors, "prerequisite_id must be a positive integer")
	}

	return errors
}
