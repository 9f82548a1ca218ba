package domain

import "time"

// TaskStatus represents the column a task sits in.
type TaskStatus string

const (
	StatusBacklog  TaskStatus = "backlog"
	StatusTodo     TaskStatus = "todo"
	StatusProgress TaskStatus = "progress"
	StatusReview   TaskStatus = "review"
	StatusDone     TaskStatus = "done"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []TaskStatus{StatusBacklog, StatusTodo, StatusProgress, StatusReview, StatusDone}

// IsValid checks if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsStarted reports whether the status means work on the task has begun.
// Only started tasks are gated by their prerequisites.
func (s TaskStatus) IsStarted() bool {
	return s == StatusProgress || s == StatusReview || s == StatusDone
}

// Task represents a card on a project board.
// IDs are integers assigned by the owning task list.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new task with the given id and title.
// Default status is StatusTodo.
func NewTask(id int, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        id,
		Title:     title,
		Status:    StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetDescription sets the task description.
func (t *Task) SetDescription(desc string) {
	t.Description = &desc
}

// IsDone reports whether the task has reached StatusDone.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}
