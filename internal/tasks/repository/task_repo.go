package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ranwip/pm-backend/internal/storage/postgres"
	"github.com/ranwip/pm-backend/internal/tasks/domain"
)

const taskColumns = `
id, title, description, status, priority, project_id, assignee_id::text, reporter_id::text,
parent_task_id, due_date, estimated_hours, logged_hours, tags, story_points, created_at, updated_at`

// TaskRepository keeps tasks in Postgres. Every query joins the caller's
// transaction when ctx carries one.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.AssigneeID, &t.ReporterID,
		&t.ParentTaskID, &t.DueDate, &t.EstimatedHours, &t.LoggedHours, pq.Array(&t.Tags), &t.StoryPoints,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	const q = `
INSERT INTO tasks (title, description, status, priority, project_id, assignee_id, reporter_id,
                   parent_task_id, due_date, estimated_hours, tags, story_points)
VALUES ($1, $2, $3, $4, $5, $6::uuid, $7::uuid, $8, $9, $10, $11, $12)
RETURNING id, logged_hours, created_at, updated_at;
`
	return postgres.Conn(ctx, r.db).QueryRowContext(ctx, q,
		t.Title, t.Description, t.Status, t.Priority, t.ProjectID, t.AssigneeID, t.ReporterID,
		t.ParentTaskID, t.DueDate, t.EstimatedHours, pq.Array(t.Tags), t.StoryPoints,
	).Scan(&t.ID, &t.LoggedHours, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	return t, err
}

// GetForUpdate loads the task and row-locks it until the surrounding
// transaction ends.
func (r *TaskRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	return t, err
}

func (r *TaskRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		where = append(where, fmt.Sprintf("assignee_id = $%d::uuid", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the editable fields. logged_hours is not touched here.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	const q = `
UPDATE tasks
SET title = $2, description = $3, status = $4, priority = $5, assignee_id = $6::uuid,
    parent_task_id = $7, due_date = $8, estimated_hours = $9, tags = $10, story_points = $11,
    updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, q,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID,
		t.ParentTaskID, t.DueDate, t.EstimatedHours, pq.Array(t.Tags), t.StoryPoints,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(t.ID)
	}
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetLoggedHours stores a recomputed total.
func (r *TaskRepository) SetLoggedHours(ctx context.Context, id int64, hours int) error {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE tasks SET logged_hours = $2, updated_at = now() WHERE id = $1`, id, hours)
	if postgres.IsCheckViolation(err) {
		return domain.LoggedHoursOutOfRange(id, hours)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(id)
	}
	return nil
}

// IncrementLoggedHours adds delta in a single statement and returns the task.
func (r *TaskRepository) IncrementLoggedHours(ctx context.Context, id int64, delta int) (*domain.Task, error) {
	t, err := scanTask(postgres.Conn(ctx, r.db).QueryRowContext(ctx, `
UPDATE tasks SET logged_hours = logged_hours + $2, updated_at = now()
WHERE id = $1
RETURNING `+taskColumns, id, delta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	if postgres.IsCheckViolation(err) {
		return nil, domain.IncrementOutOfRange(id, delta)
	}
	return t, err
}
