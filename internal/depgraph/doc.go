// Package depgraph maintains the "task A cannot start until task B is done"
// relation for one task list.
//
// A Graph maps a dependent task id to the ordered list of its prerequisite
// ids. Every operation is pure: it reads the graph (and, where needed, the
// caller's task list) and returns a new Graph, leaving its inputs untouched.
// Callers may therefore keep earlier graphs around for undo or comparison.
//
// After every successful mutation the graph is acyclic, has no self-loops,
// no duplicate edges, and no dependent with an empty prerequisite list.
// New edges must reference tasks present in the supplied task list; entries
// for tasks deleted later are removed with RemoveDependenciesForTask.
//
// Query operations never fail. Stale or unknown ids yield empty results.
//
// The persisted form is a JSON object keyed by decimal task ids:
//
//	{"5": [1, 2], "7": [5]}
//
// Serialize and Marshal produce it; Deserialize and Unmarshal read it back
// tolerantly, dropping malformed entries instead of failing.
package depgraph
