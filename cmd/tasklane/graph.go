package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect dependency graph files",
	Long:  `Offline tools for dependency graphs stored in the wire format.`,
}

var graphCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a dependency graph file",
	Long: `Decode a dependency graph file tolerantly and report what would be dropped.
With --tasks, every edge is also replayed against that task list, rejecting
edges to unknown tasks, self-loops and cycles.

Exits 2 when the file is not a graph at all and 3 when it needed repair.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasksPath, _ := cmd.Flags().GetString("tasks")

		result, err := runGraphCheck(args[0], tasksPath)
		if err != nil {
			return err
		}

		printCheckResult(cmd.OutOrStdout(), result, jsonOutput)
		if !result.Clean() {
			return &exitError{code: ExitGraphRepaired, err: errors.New("graph needed repair")}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphCheckCmd)

	graphCheckCmd.Flags().String("tasks", "", "JSON file with the task list to validate edges against")
}

// checkResult is the outcome of checking one graph file.
type checkResult struct {
	File           string           `json:"file"`
	Dependencies   map[string][]int `json:"dependencies"`
	Edges          int              `json:"edges"`
	DroppedEntries int              `json:"dropped_entries"`
	DroppedValues  int              `json:"dropped_values"`
	Validated      bool             `json:"validated"`
	Rejected       []rejectedEdge   `json:"rejected"`
}

type rejectedEdge struct {
	DependentID    int              `json:"dependent_id"`
	PrerequisiteID int              `json:"prerequisite_id"`
	Code           domain.ErrorCode `json:"code"`
	Message        string           `json:"message"`
}

// Clean reports whether the file needed no repair.
func (r *checkResult) Clean() bool {
	return r.DroppedEntries == 0 && r.DroppedValues == 0 && len(r.Rejected) == 0
}

func runGraphCheck(graphPath, tasksPath string) (*checkResult, error) {
	data, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	g, report := depgraph.Unmarshal(data)
	if report.InvalidInput {
		return nil, &exitError{
			code: ExitInvalidGraph,
			err:  fmt.Errorf("%s is not a dependency graph: expected a JSON object of id arrays", graphPath),
		}
	}

	result := &checkResult{
		File:           graphPath,
		DroppedEntries: report.DroppedEntries,
		DroppedValues:  report.DroppedValues,
		Rejected:       []rejectedEdge{},
	}

	if tasksPath != "" {
		tasks, err := readTasks(tasksPath)
		if err != nil {
			return nil, err
		}

		var rejections []depgraph.Rejection
		g, rejections = depgraph.Rebuild(g, tasks)
		result.Validated = true
		for _, r := range rejections {
			rej := rejectedEdge{
				DependentID:    r.Dependency.DependentID,
				PrerequisiteID: r.Dependency.PrerequisiteID,
				Code:           domain.ErrCodeInternalError,
				Message:        r.Err.Error(),
			}
			var de *domain.DomainError
			if errors.As(r.Err, &de) {
				rej.Code = de.Code
			}
			result.Rejected = append(result.Rejected, rej)
		}
	}

	result.Dependencies = depgraph.Serialize(g)
	result.Edges = len(g.Edges())
	return result, nil
}

func readTasks(path string) ([]domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file: %w", err)
	}
	return tasks, nil
}

func printCheckResult(w io.Writer, result *checkResult, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", result.File)
	fmt.Fprintf(tw, "Edges kept:\t%d\n", result.Edges)
	fmt.Fprintf(tw, "Dropped entries:\t%d\n", result.DroppedEntries)
	fmt.Fprintf(tw, "Dropped values:\t%d\n", result.DroppedValues)
	if result.Validated {
		fmt.Fprintf(tw, "Rejected edges:\t%d\n", len(result.Rejected))
	}
	tw.Flush()

	if len(result.Rejected) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "DEPENDENT\tPREREQUISITE\tREASON\n")
	fmt.Fprintf(tw, "---------\t------------\t------\n")
	for _, r := range result.Rejected {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", r.DependentID, r.PrerequisiteID, truncate(r.Message, 60))
	}
	tw.Flush()
}
