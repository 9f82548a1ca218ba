package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks on a running server",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		statusStr, _ := cmd.Flags().GetString("status")

		var status *domain.TaskStatus
		if statusStr != "" {
			s, err := parseStatus(statusStr)
			if err != nil {
				return err
			}
			status = &s
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		task, err := c.CreateTask(context.Background(), args[0], description, status)
		if err != nil {
			return err
		}

		printTask(cmd.OutOrStdout(), task, jsonOutput)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks with optional filtering by status. With --ready, list only tasks that are not done and not blocked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		ready, _ := cmd.Flags().GetBool("ready")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, err := getClient()
		if err != nil {
			return err
		}

		var result *client.TaskListResponse
		if ready {
			result, err = c.ListReadyTasks(context.Background(), page, perPage)
		} else {
			result, err = c.ListTasks(context.Background(), status, page, perPage)
		}
		if err != nil {
			return err
		}

		printTaskList(cmd.OutOrStdout(), result.Data, result.Pagination, jsonOutput)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		task, err := c.GetTask(context.Background(), id)
		if err != nil {
			return err
		}

		printTask(cmd.OutOrStdout(), task, jsonOutput)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a task to a new status",
	Long:  `Move a task to backlog, todo, progress, review or done. Starting a task that has unfinished prerequisites fails.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		status, err := parseStatus(args[1])
		if err != nil {
			return err
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		task, err := c.SetStatus(context.Background(), id, status)
		if err != nil {
			return err
		}

		printTask(cmd.OutOrStdout(), task, jsonOutput)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task and its dependency edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		if err := c.DeleteTask(context.Background(), id); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task %d deleted", id), jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	addRemoteFlags(taskCmd)

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskRmCmd)

	taskAddCmd.Flags().StringP("description", "d", "", "Task description")
	taskAddCmd.Flags().String("status", "", "Initial status (default todo)")

	taskListCmd.Flags().String("status", "", "Filter by status (backlog, todo, progress, review, done)")
	taskListCmd.Flags().Bool("ready", false, "Only tasks that can be worked on now")
	taskListCmd.Flags().Int("page", 1, "Page number")
	taskListCmd.Flags().Int("per-page", 50, "Items per page")
}
