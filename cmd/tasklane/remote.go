package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/config"
	"github.com/tasklane/tasklane/internal/domain"
)

// Flags shared by commands that talk to a running server.
var (
	serverAddr  string
	projectName string
)

// DefaultProject is the project used when --project is not given.
const DefaultProject = "default"

// addRemoteFlags registers --server and --project on cmd and its children.
func addRemoteFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&serverAddr, "server", "", "Server address (default from config)")
	cmd.PersistentFlags().StringVarP(&projectName, "project", "p", DefaultProject, "Project name")
}

// getClient builds an API client from --server, falling back to the
// configured listen address.
func getClient() (*client.Client, error) {
	addr := serverAddr
	if addr == "" {
		cfg, err := config.Resolve(configPath)
		if err != nil {
			return nil, err
		}
		addr = cfg.Addr()
	}
	return client.NewClient(addr, projectName), nil
}

// parseTaskID parses a positional task id argument.
func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q: must be a positive integer", arg)
	}
	return id, nil
}

// parseStatus validates a status argument.
func parseStatus(arg string) (domain.TaskStatus, error) {
	status := domain.TaskStatus(arg)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status %q", arg)
	}
	return status, nil
}
