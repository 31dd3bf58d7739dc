package domain

import (
	"time"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/dates"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return st, nil
	}
	return "", apperr.Validation("unknown task status %q", s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", apperr.Validation("unknown priority %q", s)
}

// MaxLoggedHours is the storage bound on a task's logged hours.
const MaxLoggedHours = 500

// Task is a unit of work inside a project. LoggedHours is derived from the
// task's time entries.
type Task struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    *string     `json:"description,omitempty"`
	Status         Status      `json:"status"`
	Priority       Priority    `json:"priority"`
	ProjectID      int64       `json:"project_id"`
	AssigneeID     *string     `json:"assignee_id,omitempty"`
	ReporterID     string      `json:"reporter_id"`
	ParentTaskID   *int64      `json:"parent_task_id,omitempty"`
	DueDate        *dates.Date `json:"due_date,omitempty"`
	EstimatedHours *int        `json:"estimated_hours,omitempty"`
	LoggedHours    int         `json:"logged_hours"`
	Tags           []string    `json:"tags"`
	StoryPoints    *int        `json:"story_points,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// UpdateTaskRequest carries a partial change. ClearAssignee unassigns.
type UpdateTaskRequest struct {
	Title          *string
	Description    *string
	Status         *Status
	Priority       *Priority
	AssigneeID     *string
	ClearAssignee  bool
	ParentTaskID   *int64
	DueDate        *dates.Date
	EstimatedHours *int
	Tags           []string
	StoryPoints    *int
}

type ListFilter struct {
	ProjectID  *int64
	AssigneeID *string
	Status     *Status
}
