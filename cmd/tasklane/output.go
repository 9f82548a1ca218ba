package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/service"
)

const timeLayout = "2006-01-02 15:04:05"

func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task *domain.Task, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", task.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", task.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *task.Description)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Format(timeLayout))
	tw.Flush()
}

// printTaskList prints a list of tasks with pagination info
func printTaskList(w io.Writer, tasks []domain.Task, pagination *client.Pagination, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"data":       tasks,
			"pagination": pagination,
		})
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tSTATUS\n")
	fmt.Fprintf(tw, "--\t-----\t------\n")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", task.ID, truncate(task.Title, 40), task.Status)
	}
	tw.Flush()

	if pagination != nil && pagination.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total tasks)\n",
			pagination.Page, pagination.TotalPages, pagination.Total)
	}
}

// printRelations prints both directions of a task's dependency edges
func printRelations(w io.Writer, taskID int, prerequisites, dependents *service.Related, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"task_id":       taskID,
			"prerequisites": prerequisites.Tasks,
			"dependents":    dependents.Tasks,
		})
		return
	}

	if len(prerequisites.Tasks) == 0 && len(dependents.Tasks) == 0 {
		fmt.Fprintf(w, "Task %d has no dependencies\n", taskID)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TYPE\tTASK ID\tTITLE\tSTATUS\n")
	fmt.Fprintf(tw, "----\t-------\t-----\t------\n")
	for _, t := range prerequisites.Tasks {
		fmt.Fprintf(tw, "depends on\t%d\t%s\t%s\n", t.ID, truncate(t.Title, 40), t.Status)
	}
	for _, t := range dependents.Tasks {
		fmt.Fprintf(tw, "blocks\t%d\t%s\t%s\n", t.ID, truncate(t.Title, 40), t.Status)
	}
	tw.Flush()
}

// printBlocked prints whether a task is blocked and by what
func printBlocked(w io.Writer, taskID int, status *depgraph.BlockedStatus, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, status)
		return
	}

	if !status.Blocked {
		fmt.Fprintf(w, "Task %d is not blocked\n", taskID)
		return
	}

	ids := make([]string, 0, len(status.BlockingTasks))
	for _, t := range status.BlockingTasks {
		ids = append(ids, fmt.Sprintf("%d", t.ID))
	}
	fmt.Fprintf(w, "Task %d is blocked by %s\n", taskID, strings.Join(ids, ", "))
}

// printImportResult prints the outcome of a graph upload
func printImportResult(w io.Writer, result *service.ImportResult, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, result)
		return
	}

	edges := 0
	for _, prereqs := range result.Dependencies {
		edges += len(prereqs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Edges kept:\t%d\n", edges)
	fmt.Fprintf(tw, "Dropped entries:\t%d\n", result.DroppedEntries)
	fmt.Fprintf(tw, "Dropped values:\t%d\n", result.DroppedValues)
	fmt.Fprintf(tw, "Rejected edges:\t%d\n", len(result.Rejected))
	tw.Flush()

	for _, r := range result.Rejected {
		fmt.Fprintf(w, "  %d -> %d: %s\n", r.DependentID, r.PrerequisiteID, r.Message)
	}
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
			},
		})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
