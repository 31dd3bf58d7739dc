package domain

import (
	"strings"
	"time"
)

const MaxContentLen = 2000

// Comment belongs to a task and optionally replies to another comment on the
// same task. Mentions hold display names as written, not user ids.
type Comment struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	AuthorID        string    `json:"author_id"`
	TaskID          int64     `json:"task_id"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty"`
	Mentions        []string  `json:"mentions"`
	Reactions       Reactions `json:"reactions"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c Comment) IsReply() bool { return c.ParentCommentID != nil }

// UpdateCommentRequest changes content and mentions only. Author, task and
// parent are fixed at creation.
type UpdateCommentRequest struct {
	Content  *string
	Mentions []string
}

// Filter scopes listings and stats. Zero value means all comments.
type Filter struct {
	TaskID   *int64
	AuthorID *string
}

type Stats struct {
	TotalComments      int        `json:"total_comments"`
	TotalReplies       int        `json:"total_replies"`
	UniqueParticipants int        `json:"unique_participants"`
	RecentActivity     *time.Time `json:"recent_activity"`
}

// ComputeStats counts top-level comments and replies, distinct authors, and
// the latest creation time (nil when there are no comments).
func ComputeStats(comments []Comment) Stats {
	var s Stats
	authors := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		if c.IsReply() {
			s.TotalReplies++
		} else {
			s.TotalComments++
		}
		authors[c.AuthorID] = struct{}{}
		if s.RecentActivity == nil || c.CreatedAt.After(*s.RecentActivity) {
			at := c.CreatedAt
			s.RecentActivity = &at
		}
	}
	s.UniqueParticipants = len(authors)
	return s
}

// NormalizeMentions trims names and drops blanks and repeats, keeping order.
func NormalizeMentions(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
