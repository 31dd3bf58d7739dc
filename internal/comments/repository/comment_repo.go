package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ranwip/pm-backend/internal/comments/domain"
	"github.com/ranwip/pm-backend/internal/storage/postgres"
)

const commentColumns = `id, content, author_id::text, task_id, parent_comment_id, mentions, reactions, created_at, updated_at`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.TaskID, &c.ParentCommentID,
		pq.Array(&c.Mentions), &c.Reactions, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Mentions == nil {
		c.Mentions = []string{}
	}
	if c.Reactions == nil {
		c.Reactions = domain.Reactions{}
	}
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if c.Mentions == nil {
		c.Mentions = []string{}
	}
	if c.Reactions == nil {
		c.Reactions = domain.Reactions{}
	}
	const q = `
INSERT INTO comments (content, author_id, task_id, parent_comment_id, mentions, reactions)
VALUES ($1, $2::uuid, $3, $4, $5, $6)
RETURNING id, created_at, updated_at;
`
	return postgres.Conn(ctx, r.db).QueryRowContext(ctx, q,
		c.Content, c.AuthorID, c.TaskID, c.ParentCommentID, pq.Array(c.Mentions), c.Reactions,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CommentRepository) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate row-locks the comment for the surrounding transaction.
func (r *CommentRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Comment, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *CommentRepository) get(ctx context.Context, id int64, lock string) (*domain.Comment, error) {
	c, err := scanComment(postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(id)
	}
	return c, err
}

// List returns comments matching f, oldest first when ascending.
func (r *CommentRepository) List(ctx context.Context, f domain.Filter, ascending bool) ([]domain.Comment, error) {
	var (
		conds []string
		args  []any
	)
	if f.TaskID != nil {
		args = append(args, *f.TaskID)
		conds = append(conds, fmt.Sprintf("task_id = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d::uuid", len(args)))
	}

	q := `SELECT ` + commentColumns + ` FROM comments`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if ascending {
		q += " ORDER BY created_at ASC, id ASC"
	} else {
		q += " ORDER BY created_at DESC, id DESC"
	}
	return r.query(ctx, q, args...)
}

func (r *CommentRepository) Replies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	return r.query(ctx, `SELECT `+commentColumns+` FROM comments
WHERE parent_comment_id = $1 ORDER BY created_at ASC, id ASC`, parentID)
}

// FindMentioning returns comments whose mentions contain name exactly.
func (r *CommentRepository) FindMentioning(ctx context.Context, name string) ([]domain.Comment, error) {
	return r.query(ctx, `SELECT `+commentColumns+` FROM comments
WHERE $1 = ANY(mentions) ORDER BY created_at DESC, id DESC`, name)
}

func (r *CommentRepository) query(ctx context.Context, q string, args ...any) ([]domain.Comment, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Comment, 0, 16)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes content, mentions and reactions.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	const q = `
UPDATE comments SET content = $2, mentions = $3, reactions = $4, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, q,
		c.ID, c.Content, pq.Array(c.Mentions), c.Reactions).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(c.ID)
	}
	return err
}

func (r *CommentRepository) CountReplies(ctx context.Context, id int64) (int, error) {
	var n int
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM comments WHERE parent_comment_id = $1`, id).Scan(&n)
	return n, err
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if postgres.IsForeignKeyViolation(err) {
		return false, domain.HasReplies()
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
