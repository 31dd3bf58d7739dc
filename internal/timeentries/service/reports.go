package service

import (
	"context"

	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

type ReportStore interface {
	List(ctx context.Context, f domain.Filter) ([]domain.TimeEntry, error)
	Totals(ctx context.Context, f domain.Filter) (domain.HoursSummary, error)
	Week(ctx context.Context, userID string, from, to dates.Date) ([]domain.TimeEntry, error)
}

type ProjectLookup interface {
	Exists(ctx context.Context, id int64) error
}

// Reports answers read-only questions over time entries.
type Reports struct {
	entries  ReportStore
	users    UserLookup
	projects ProjectLookup
}

func NewReports(entries ReportStore, users UserLookup, projects ProjectLookup) *Reports {
	return &Reports{entries: entries, users: users, projects: projects}
}

// UserTotals sums a user's hours, optionally within [from, to].
func (r *Reports) UserTotals(ctx context.Context, userID string, from, to *dates.Date) (domain.HoursSummary, error) {
	if err := r.users.Exists(ctx, userID); err != nil {
		return domain.HoursSummary{}, err
	}
	return r.entries.Totals(ctx, domain.Filter{UserID: &userID, From: from, To: to})
}

// ProjectTotals sums hours across every task of a project, optionally
// within [from, to].
func (r *Reports) ProjectTotals(ctx context.Context, projectID int64, from, to *dates.Date) (domain.HoursSummary, error) {
	if err := r.projects.Exists(ctx, projectID); err != nil {
		return domain.HoursSummary{}, err
	}
	return r.entries.Totals(ctx, domain.Filter{ProjectID: &projectID, From: from, To: to})
}

// Billable lists billable entries matching f.
func (r *Reports) Billable(ctx context.Context, f domain.Filter) ([]domain.TimeEntry, error) {
	yes := true
	f.Billable = &yes
	return r.entries.List(ctx, f)
}

// WeeklyTimesheet covers weekStart through weekStart+6. weekStart may be any
// day of the week.
func (r *Reports) WeeklyTimesheet(ctx context.Context, userID string, weekStart dates.Date) (domain.Timesheet, error) {
	if err := r.users.Exists(ctx, userID); err != nil {
		return domain.Timesheet{}, err
	}
	from, to := dates.WeekWindow(weekStart)
	entries, err := r.entries.Week(ctx, userID, from, to)
	if err != nil {
		return domain.Timesheet{}, err
	}
	return domain.NewTimesheet(userID, weekStart, entries), nil
}
