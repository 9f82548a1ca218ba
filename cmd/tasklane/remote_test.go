package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tasklane/tasklane/internal/api"
	"github.com/tasklane/tasklane/internal/domain"
	"github.com/tasklane/tasklane/internal/kv"
	"github.com/tasklane/tasklane/internal/store"
)

func newRemoteServer(t *testing.T) string {
	t.Helper()

	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	logger := log.New(io.Discard)
	manager := store.NewManager(s, logger)

	server := httptest.NewServer(api.NewRouter(manager, logger))
	t.Cleanup(func() {
		server.Close()
		manager.Close()
	})
	return server.URL
}

// resetFlags restores every flag in the tree to its default so that
// values set by one Execute do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI against server and returns stdout.
func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--server", server, "--project", "cli-test"))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, server string, args ...string) string {
	t.Helper()
	out, err := run(t, server, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func TestTaskCommands(t *testing.T) {
	server := newRemoteServer(t)

	out := mustRun(t, server, "task", "add", "Write docs", "-d", "user guide")
	if !strings.Contains(out, "Write docs") || !strings.Contains(out, "todo") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, server, "task", "add", "Ship", "--status", "backlog", "--json")
	var task domain.Task
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("expected JSON task, got %q: %v", out, err)
	}
	if task.ID != 2 || task.Status != domain.StatusBacklog {
		t.Errorf("task = %+v, expected id 2 in backlog", task)
	}

	out = mustRun(t, server, "task", "list")
	if !strings.Contains(out, "Write docs") || !strings.Contains(out, "Ship") {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, server, "task", "list", "--status", "backlog")
	if strings.Contains(out, "Write docs") {
		t.Errorf("status filter should hide todo tasks, got %q", out)
	}

	out = mustRun(t, server, "task", "move", "1", "done")
	if !strings.Contains(out, "done") {
		t.Errorf("move output = %q", out)
	}

	out = mustRun(t, server, "task", "show", "1")
	if !strings.Contains(out, "user guide") {
		t.Errorf("show output = %q", out)
	}

	out = mustRun(t, server, "task", "rm", "2")
	if !strings.Contains(out, "Task 2 deleted") {
		t.Errorf("rm output = %q", out)
	}

	_, err := run(t, server, "task", "show", "2")
	if !domain.HasCode(err, domain.ErrCodeTaskNotFound) {
		t.Errorf("show deleted task error = %v, expected TASK_NOT_FOUND", err)
	}
}

func TestTaskCommands_InvalidArgs(t *testing.T) {
	server := newRemoteServer(t)

	if _, err := run(t, server, "task", "show", "abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := run(t, server, "task", "move", "1", "started"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestDepCommands(t *testing.T) {
	server := newRemoteServer(t)
	mustRun(t, server, "task", "add", "Design")
	mustRun(t, server, "task", "add", "Build")

	out := mustRun(t, server, "dep", "add", "2", "1")
	if !strings.Contains(out, "Task 2 now depends on 1") {
		t.Errorf("dep add output = %q", out)
	}

	out = mustRun(t, server, "dep", "blocked", "2")
	if !strings.Contains(out, "blocked by 1") {
		t.Errorf("blocked output = %q", out)
	}

	_, err := run(t, server, "task", "move", "2", "progress")
	if !domain.HasCode(err, domain.ErrCodeTaskBlocked) {
		t.Errorf("moving blocked task error = %v, expected TASK_BLOCKED", err)
	}

	_, err = run(t, server, "dep", "add", "1", "2")
	if !domain.HasCode(err, domain.ErrCodeCycleDetected) {
		t.Errorf("cycle error = %v, expected CYCLE_DETECTED", err)
	}

	out = mustRun(t, server, "dep", "list", "1")
	if !strings.Contains(out, "blocks") || !strings.Contains(out, "Build") {
		t.Errorf("dep list output = %q", out)
	}

	out = mustRun(t, server, "task", "list", "--ready")
	if strings.Contains(out, "Build") || !strings.Contains(out, "Design") {
		t.Errorf("ready list = %q, expected only Design", out)
	}

	mustRun(t, server, "dep", "rm", "2", "1")
	out = mustRun(t, server, "dep", "blocked", "2")
	if !strings.Contains(out, "not blocked") {
		t.Errorf("blocked after rm = %q", out)
	}
}

func TestDepImportCommand(t *testing.T) {
	server := newRemoteServer(t)
	mustRun(t, server, "task", "add", "A")
	mustRun(t, server, "task", "add", "B")

	path := writeFile(t, "deps.json", `{"2":[1,"x"],"1":[2],"junk":[1]}`)
	out := mustRun(t, server, "dep", "import", path, "--json")

	var result struct {
		Dependencies   map[string][]int `json:"dependencies"`
		DroppedEntries int              `json:"dropped_entries"`
		DroppedValues  int              `json:"dropped_values"`
		Rejected       []struct {
			Code domain.ErrorCode `json:"code"`
		} `json:"rejected"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("expected JSON result, got %q: %v", out, err)
	}
	if len(result.Dependencies["1"]) != 1 || len(result.Dependencies["2"]) != 0 || result.DroppedEntries != 1 || result.DroppedValues != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Code != domain.ErrCodeCycleDetected {
		t.Errorf("rejected = %+v, expected one cycle", result.Rejected)
	}

	_, err := run(t, server, "dep", "import", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
