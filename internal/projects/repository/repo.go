package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/projects/domain"
)

const projectColumns = `id, name, description, status, priority, owner_id::text, start_date, end_date, budget, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.Priority, &p.OwnerID,
		&p.StartDate, &p.EndDate, &p.Budget, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p *domain.Project) error {
	const q = `
insert into projects (name, description, status, priority, owner_id, start_date, end_date, budget)
values ($1, $2, $3, $4, $5::uuid, $6, $7, $8)
returning id, created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, p.Name, p.Description, p.Status, p.Priority, p.OwnerID,
		p.StartDate, p.EndDate, p.Budget).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.NotFound("User with ID %s not found", p.OwnerID)
	}
	return err
}

func (r *Repo) Get(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `select `+projectColumns+` from projects where id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	return p, err
}

// List returns projects newest first, optionally narrowed to one status.
func (r *Repo) List(ctx context.Context, status *domain.Status) ([]domain.Project, error) {
	q := `select ` + projectColumns + ` from projects where ($1::text is null or status = $1) order by created_at desc`
	var st *string
	if status != nil {
		s := string(*status)
		st = &s
	}
	rows, err := r.db.Query(ctx, q, st)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, p *domain.Project) error {
	const q = `
update projects
set name = $2, description = $3, status = $4, priority = $5,
    start_date = $6, end_date = $7, budget = $8, updated_at = now()
where id = $1
returning updated_at;
`
	err := r.db.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Status, p.Priority,
		p.StartDate, p.EndDate, p.Budget).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(p.ID)
	}
	return err
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `delete from projects where id = $1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
