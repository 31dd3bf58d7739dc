package domain

import "time"

type Type string

const (
	TypeTaskAssigned   Type = "task_assigned"
	TypeTaskDueSoon    Type = "task_due_soon"
	TypeCommentMention Type = "comment_mention"
	TypeProjectUpdate  Type = "project_update"
	TypeTimeLogged     Type = "time_logged"
	TypeTaskCompleted  Type = "task_completed"
)

type RelatedType string

const (
	RelatedTask    RelatedType = "task"
	RelatedProject RelatedType = "project"
	RelatedComment RelatedType = "comment"
	RelatedSprint  RelatedType = "sprint"
)

// Notification is a short message addressed to one user.
type Notification struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Type        Type        `json:"type"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	RelatedType RelatedType `json:"related_type,omitempty"`
	RelatedID   int64       `json:"related_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
