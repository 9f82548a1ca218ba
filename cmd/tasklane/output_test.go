package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/depgraph"
	"github.com/tasklane/tasklane/internal/domain"
)

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"), false)
	if buf.String() != "Error: boom\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.New("boom"), true)
	var parsed map[string]map[string]string
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output should be valid JSON: %v", err)
	}
	if parsed["error"]["message"] != "boom" {
		t.Errorf("message = %q, expected boom", parsed["error"]["message"])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{strings.Repeat("a", 12), 10, "aaaaaaa..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestPrintBlocked(t *testing.T) {
	var buf bytes.Buffer
	printBlocked(&buf, 3, &depgraph.BlockedStatus{}, false)
	if buf.String() != "Task 3 is not blocked\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	status := &depgraph.BlockedStatus{
		Blocked:       true,
		BlockingTasks: []domain.Task{domain.NewTask(1, "a"), domain.NewTask(2, "b")},
	}
	printBlocked(&buf, 3, status, false)
	if buf.String() != "Task 3 is blocked by 1, 2\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintTaskList_Empty(t *testing.T) {
	var buf bytes.Buffer
	printTaskList(&buf, nil, &client.Pagination{Page: 1, PerPage: 50}, false)
	if buf.String() != "No tasks found\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintTaskList_Pagination(t *testing.T) {
	var buf bytes.Buffer
	tasks := []domain.Task{domain.NewTask(1, "first")}
	printTaskList(&buf, tasks, &client.Pagination{Page: 1, PerPage: 1, Total: 2, TotalPages: 2}, false)
	if !strings.Contains(buf.String(), "Page 1 of 2 (2 total tasks)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "done", true)
	var parsed map[string]string
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output should be valid JSON: %v", err)
	}
	if parsed["message"] != "done" {
		t.Errorf("message = %q", parsed["message"])
	}
}
