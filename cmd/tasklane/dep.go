package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies on a running server",
}

var depAddCmd = &cobra.Command{
	Use:   "add <dependent> <prerequisite>",
	Short: "Make a task wait on another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dependent, prerequisite, err := parseEdgeArgs(args)
		if err != nil {
			return err
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		if err := c.AddDependency(context.Background(), dependent, prerequisite); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task %d now depends on %d", dependent, prerequisite), jsonOutput)
		return nil
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm <dependent> <prerequisite>",
	Short: "Remove a dependency",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dependent, prerequisite, err := parseEdgeArgs(args)
		if err != nil {
			return err
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		if err := c.RemoveDependency(context.Background(), dependent, prerequisite); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task %d no longer depends on %d", dependent, prerequisite), jsonOutput)
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List what a task waits on and what waits on it",
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

		ctx := context.Background()
		prerequisites, err := c.ListDependencies(ctx, id)
		if err != nil {
			return err
		}
		dependents, err := c.ListDependents(ctx, id)
		if err != nil {
			return err
		}

		printRelations(cmd.OutOrStdout(), id, prerequisites, dependents, jsonOutput)
		return nil
	},
}

var depBlockedCmd = &cobra.Command{
	Use:   "blocked <id>",
	Short: "Show whether a task is blocked",
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

		status, err := c.GetBlocked(context.Background(), id)
		if err != nil {
			return err
		}

		printBlocked(cmd.OutOrStdout(), id, status, jsonOutput)
		return nil
	},
}

var depImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the project's dependency graph from a file",
	Long: `Upload a dependency graph in the wire format. Malformed entries are
dropped and edges that name unknown tasks, loop, or close a cycle are
rejected; the rest replaces the stored graph.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read graph file: %w", err)
		}

		c, err := getClient()
		if err != nil {
			return err
		}

		result, err := c.ImportGraph(context.Background(), data)
		if err != nil {
			return err
		}

		printImportResult(cmd.OutOrStdout(), result, jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depCmd)
	addRemoteFlags(depCmd)

	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depListCmd)
	depCmd.AddCommand(depBlockedCmd)
	depCmd.AddCommand(depImportCmd)
}

func parseEdgeArgs(args []string) (int, int, error) {
	dependent, err := parseTaskID(args[0])
	if err != nil {
		return 0, 0, err
	}
	prerequisite, err := parseTaskID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return dependent, prerequisite, nil
}
