package domain

import (
	"time"

	"github.com/ranwip/pm-backend/internal/dates"
)

const (
	MinHours          = 1
	MaxHours          = 24
	MaxDescriptionLen = 255
)

// TimeEntry is one block of work a user logged against a task. StartTime and
// EndTime are optional "HH:mm" clock times; when both are set the interval
// must agree with Hours.
type TimeEntry struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	UserID      string     `json:"user_id"`
	Description *string    `json:"description,omitempty"`
	Hours       int        `json:"hours"`
	Date        dates.Date `json:"date"`
	StartTime   *string    `json:"start_time,omitempty"`
	EndTime     *string    `json:"end_time,omitempty"`
	Billable    bool       `json:"billable"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UpdateEntryRequest is a partial change; nil fields are kept.
type UpdateEntryRequest struct {
	TaskID      *int64
	UserID      *string
	Description *string
	Hours       *int
	Date        *dates.Date
	StartTime   *string
	EndTime     *string
	Billable    *bool
}

// Filter narrows entry listings. Zero value lists everything.
type Filter struct {
	UserID    *string
	TaskID    *int64
	ProjectID *int64
	From      *dates.Date
	To        *dates.Date
	Billable  *bool
}

// HoursSummary splits a total into billable and non-billable hours.
type HoursSummary struct {
	Total       int `json:"total_hours"`
	Billable    int `json:"billable_hours"`
	NonBillable int `json:"non_billable_hours"`
}

type DayTotal struct {
	Date  dates.Date `json:"date"`
	Hours int        `json:"hours"`
}

// Timesheet is one user's entries over a 7-day window, ordered by date then
// start time.
type Timesheet struct {
	UserID    string       `json:"user_id"`
	WeekStart dates.Date   `json:"week_start"`
	WeekEnd   dates.Date   `json:"week_end"`
	Entries   []TimeEntry  `json:"entries"`
	Days      []DayTotal   `json:"days"`
	Summary   HoursSummary `json:"summary"`
}

// NewTimesheet totals entries per day across the window, including empty days.
func NewTimesheet(userID string, start dates.Date, entries []TimeEntry) Timesheet {
	from, to := dates.WeekWindow(start)
	ts := Timesheet{UserID: userID, WeekStart: from, WeekEnd: to, Entries: entries}
	if ts.Entries == nil {
		ts.Entries = []TimeEntry{}
	}

	perDay := make(map[string]int, 7)
	for _, e := range entries {
		perDay[e.Date.String()] += e.Hours
		ts.Summary.Total += e.Hours
		if e.Billable {
			ts.Summary.Billable += e.Hours
		} else {
			ts.Summary.NonBillable += e.Hours
		}
	}
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		ts.Days = append(ts.Days, DayTotal{Date: d, Hours: perDay[d.String()]})
	}
	return ts
}
