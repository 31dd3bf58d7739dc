package domain

import (
	"time"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/dates"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on-hold"
	StatusArchived  Status = "archived"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusCompleted, StatusOnHold, StatusArchived:
		return st, nil
	}
	return "", apperr.Validation("unknown project status %q", s)
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

// Project groups tasks under an owner.
type Project struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	OwnerID     string      `json:"owner_id"`
	StartDate   *dates.Date `json:"start_date,omitempty"`
	EndDate     *dates.Date `json:"end_date,omitempty"`
	Budget      *int        `json:"budget,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type UpdateProjectRequest struct {
	Name        *string
	Description *string
	Status      *Status
	Priority    *Priority
	StartDate   *dates.Date
	EndDate     *dates.Date
	Budget      *int
}
