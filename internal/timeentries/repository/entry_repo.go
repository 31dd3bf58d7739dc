package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/storage/postgres"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

const entryColumns = `
e.id, e.task_id, e.user_id::text, e.description, e.hours, e.date,
to_char(e.start_time, 'HH24:MI'), to_char(e.end_time, 'HH24:MI'), e.billable, e.created_at`

// EntryRepository keeps time entries in Postgres and joins the caller's
// transaction when ctx carries one.
type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	err := row.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Description, &e.Hours, &e.Date,
		&e.StartTime, &e.EndTime, &e.Billable, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepository) Create(ctx context.Context, e *domain.TimeEntry) error {
	const q = `
INSERT INTO time_entries (task_id, user_id, description, hours, date, start_time, end_time, billable)
VALUES ($1, $2::uuid, $3, $4, $5, $6::time, $7::time, $8)
RETURNING id, created_at;
`
	return postgres.Conn(ctx, r.db).QueryRowContext(ctx, q,
		e.TaskID, e.UserID, e.Description, e.Hours, e.Date, e.StartTime, e.EndTime, e.Billable,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *EntryRepository) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate loads the entry and row-locks it for the surrounding
// transaction.
func (r *EntryRepository) GetForUpdate(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *EntryRepository) get(ctx context.Context, id int64, lock string) (*domain.TimeEntry, error) {
	e, err := scanEntry(postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries e WHERE e.id = $1`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	return e, err
}

func (r *EntryRepository) Update(ctx context.Context, e *domain.TimeEntry) error {
	const q = `
UPDATE time_entries
SET task_id = $2, user_id = $3::uuid, description = $4, hours = $5, date = $6,
    start_time = $7::time, end_time = $8::time, billable = $9
WHERE id = $1;
`
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, q,
		e.ID, e.TaskID, e.UserID, e.Description, e.Hours, e.Date, e.StartTime, e.EndTime, e.Billable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(e.ID)
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// whereClause renders f as SQL over alias e (time_entries) and t (tasks).
func whereClause(f domain.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != nil {
		add("e.user_id = $%d::uuid", *f.UserID)
	}
	if f.TaskID != nil {
		add("e.task_id = $%d", *f.TaskID)
	}
	if f.ProjectID != nil {
		add("t.project_id = $%d", *f.ProjectID)
	}
	if f.From != nil {
		add("e.date >= $%d", *f.From)
	}
	if f.To != nil {
		add("e.date <= $%d", *f.To)
	}
	if f.Billable != nil {
		add("e.billable = $%d", *f.Billable)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns matching entries, newest date first.
func (r *EntryRepository) List(ctx context.Context, f domain.Filter) ([]domain.TimeEntry, error) {
	where, args := whereClause(f)
	q := `SELECT ` + entryColumns + ` FROM time_entries e JOIN tasks t ON t.id = e.task_id` +
		where + ` ORDER BY e.date DESC, e.created_at DESC`
	return r.query(ctx, q, args...)
}

// Week returns a user's entries in [from, to] ordered by date then start time.
func (r *EntryRepository) Week(ctx context.Context, userID string, from, to dates.Date) ([]domain.TimeEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM time_entries e
WHERE e.user_id = $1::uuid AND e.date BETWEEN $2 AND $3
ORDER BY e.date ASC, e.start_time ASC NULLS LAST, e.created_at ASC`
	return r.query(ctx, q, userID, from, to)
}

func (r *EntryRepository) query(ctx context.Context, q string, args ...any) ([]domain.TimeEntry, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TimeEntry, 0, 16)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SumHoursByTask is the authoritative logged-hours value for a task.
func (r *EntryRepository) SumHoursByTask(ctx context.Context, taskID int64) (int, error) {
	var total int
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE task_id = $1`, taskID).Scan(&total)
	return total, err
}

// Totals sums hours over the entries matching f.
func (r *EntryRepository) Totals(ctx context.Context, f domain.Filter) (domain.HoursSummary, error) {
	where, args := whereClause(f)
	q := `SELECT COALESCE(SUM(e.hours), 0), COALESCE(SUM(e.hours) FILTER (WHERE e.billable), 0)
FROM time_entries e JOIN tasks t ON t.id = e.task_id` + where

	var s domain.HoursSummary
	if err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, q, args...).Scan(&s.Total, &s.Billable); err != nil {
		return domain.HoursSummary{}, err
	}
	s.NonBillable = s.Total - s.Billable
	return s, nil
}
