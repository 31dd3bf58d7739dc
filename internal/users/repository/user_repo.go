package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ranwip/pm-backend/internal/users/domain"
)

const userColumns = `
id::text, name, email, password_hash, role, department, avatar, timezone,
skills, capacity, phone, bio, presence, presence_changed_at, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.Avatar, &u.Timezone,
		&u.Skills, &u.Capacity, &u.Phone, &u.Bio, &u.Presence, &u.PresenceChangedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return &u, nil
}

// isMissing covers both "no row" and ids that are not valid uuids.
func isMissing(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func (r *Repo) Create(ctx context.Context, u *domain.User) error {
	if u.Email == "" || u.PasswordHash == "" {
		return fmt.Errorf("email and password hash required")
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.Timezone == "" {
		u.Timezone = "America/New_York"
	}
	if u.Capacity == 0 {
		u.Capacity = 40
	}

	const q = `
insert into users (name, email, password_hash, role, department, avatar, timezone, skills, capacity, phone, bio)
values ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11)
returning id::text, email, presence, created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.Avatar, u.Timezone, u.Skills, u.Capacity, u.Phone, u.Bio,
	).Scan(&u.ID, &u.Email, &u.Presence, &u.CreatedAt, &u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `select ` + userColumns + ` from users where id = $1::uuid`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if isMissing(err) {
		return nil, domain.NotFound(id)
	}
	return u, err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `select ` + userColumns + ` from users where email = lower($1)`
	u, err := scanUser(r.db.QueryRow(ctx, q, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, err
}

// FindByNames returns users whose current display name is one of names.
func (r *Repo) FindByNames(ctx context.Context, names []string) ([]domain.User, error) {
	if len(names) == 0 {
		return []domain.User{}, nil
	}
	q := `select ` + userColumns + ` from users where name = any($1) order by name`
	return r.query(ctx, q, names)
}

func (r *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.User, error) {
	q := `select ` + userColumns + ` from users
where ($1::text is null or role = $1) and ($2::text is null or department = $2)
order by name`
	var role, dept *string
	if f.Role != nil {
		s := string(*f.Role)
		role = &s
	}
	if f.Department != nil {
		s := string(*f.Department)
		dept = &s
	}
	return r.query(ctx, q, role, dept)
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, u *domain.User) error {
	const q = `
update users
set name = $2, role = $3, department = $4, avatar = $5, timezone = $6,
    skills = $7, capacity = $8, phone = $9, bio = $10, updated_at = now()
where id = $1::uuid
returning updated_at;
`
	err := r.db.QueryRow(ctx, q,
		u.ID, u.Name, u.Role, u.Department, u.Avatar, u.Timezone, u.Skills, u.Capacity, u.Phone, u.Bio,
	).Scan(&u.UpdatedAt)
	if isMissing(err) {
		return domain.NotFound(u.ID)
	}
	return err
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `delete from users where id = $1::uuid`, id)
	if err != nil {
		return false, deleteError(id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// deleteError maps a failed delete: a bad uuid is a miss (nil) and a
// foreign-key violation from projects.owner_id or tasks.reporter_id is a
// conflict.
func deleteError(id string, err error) error {
	if isMissing(err) {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return domain.StillReferenced(id)
	}
	return err
}

func (r *Repo) SetPresence(ctx context.Context, id string, p domain.Presence, at time.Time) error {
	ct, err := r.db.Exec(ctx,
		`update users set presence = $2, presence_changed_at = $3 where id = $1::uuid`, id, p, at)
	if isMissing(err) {
		return domain.NotFound(id)
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound(id)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
