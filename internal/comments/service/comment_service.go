package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/comments/domain"
	"github.com/ranwip/pm-backend/internal/logging"
	"github.com/ranwip/pm-backend/internal/metrics"
	notifdomain "github.com/ranwip/pm-backend/internal/notifications/domain"
	userdomain "github.com/ranwip/pm-backend/internal/users/domain"
)

type Store interface {
	Create(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Comment, error)
	List(ctx context.Context, f domain.Filter, ascending bool) ([]domain.Comment, error)
	Replies(ctx context.Context, parentID int64) ([]domain.Comment, error)
	FindMentioning(ctx context.Context, name string) ([]domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	CountReplies(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserDirectory interface {
	Get(ctx context.Context, id string) (*userdomain.User, error)
	FindByNames(ctx context.Context, names []string) ([]userdomain.User, error)
}

type TaskLookup interface {
	Exists(ctx context.Context, id int64) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Notifier interface {
	Send(ctx context.Context, n notifdomain.Notification) error
}

type CommentService struct {
	store    Store
	users    UserDirectory
	tasks    TaskLookup
	tx       Transactor
	notifier Notifier
}

func NewCommentService(store Store, users UserDirectory, tasks TaskLookup, tx Transactor, notifier Notifier) *CommentService {
	return &CommentService{store: store, users: users, tasks: tasks, tx: tx, notifier: notifier}
}

func validateContent(s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(s) > domain.MaxContentLen {
		return apperr.Validation("content must be at most %d characters", domain.MaxContentLen)
	}
	return nil
}

// Create adds a comment or a reply. A reply's parent must be on the same task.
func (s *CommentService) Create(ctx context.Context, c domain.Comment) (*domain.Comment, error) {
	if err := validateContent(c.Content); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, c.AuthorID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("Author with ID %s not found", c.AuthorID)
		}
		return nil, err
	}
	if err := s.tasks.Exists(ctx, c.TaskID); err != nil {
		return nil, err
	}
	if c.ParentCommentID != nil {
		parent, err := s.store.Get(ctx, *c.ParentCommentID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, domain.ParentNotFound(*c.ParentCommentID)
			}
			return nil, err
		}
		if parent.TaskID != c.TaskID {
			return nil, domain.ParentOnOtherTask()
		}
	}

	c.Mentions = domain.NormalizeMentions(c.Mentions)
	c.Reactions = c.Reactions.Normalize()
	if err := s.store.Create(ctx, &c); err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, c)
	return &c, nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.store.Get(ctx, id)
}

// List returns every comment, newest first.
func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	return s.store.List(ctx, domain.Filter{}, false)
}

// ListByTask returns a task's comments and replies, oldest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	if err := s.tasks.Exists(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, domain.Filter{TaskID: &taskID}, true)
}

// ListByUser returns comments written by userID, newest first.
func (s *CommentService) ListByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, domain.Filter{AuthorID: &userID}, false)
}

func (s *CommentService) Replies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	if _, err := s.store.Get(ctx, parentID); err != nil {
		return nil, err
	}
	return s.store.Replies(ctx, parentID)
}

// Update edits content and mentions. Author, task and parent never change.
func (s *CommentService) Update(ctx context.Context, id int64, req domain.UpdateCommentRequest) (*domain.Comment, error) {
	if req.Content != nil {
		if err := validateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	var out *domain.Comment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.store.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Content != nil {
			c.Content = *req.Content
		}
		if req.Mentions != nil {
			c.Mentions = domain.NormalizeMentions(req.Mentions)
		}
		if err := s.store.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes a comment that has no replies. Replies are never cascaded.
func (s *CommentService) Remove(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetForUpdate(ctx, id); err != nil {
			return err
		}
		n, err := s.store.CountReplies(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.HasReplies()
		}
		ok, err := s.store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound(id)
		}
		return nil
	})
}

// AddReaction records userID under emoji. Repeating it changes nothing.
func (s *CommentService) AddReaction(ctx context.Context, commentID int64, emoji, userID string) (*domain.Comment, error) {
	emoji, err := domain.ParseEmoji(emoji)
	if err != nil {
		return nil, err
	}

	var out *domain.Comment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.store.GetForUpdate(ctx, commentID)
		if err != nil {
			return err
		}
		if _, err := s.users.Get(ctx, userID); err != nil {
			return err
		}
		if c.Reactions.Add(emoji, userID) {
			if err := s.store.Update(ctx, c); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ReactionChanges.WithLabelValues("add").Inc()
	return out, nil
}

// RemoveReaction drops userID from emoji. It fails when the comment has no
// reactions with that emoji.
func (s *CommentService) RemoveReaction(ctx context.Context, commentID int64, emoji, userID string) (*domain.Comment, error) {
	emoji, err := domain.ParseEmoji(emoji)
	if err != nil {
		return nil, err
	}

	var out *domain.Comment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.store.GetForUpdate(ctx, commentID)
		if err != nil {
			return err
		}
		if err := c.Reactions.Remove(emoji, userID); err != nil {
			return err
		}
		if err := s.store.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ReactionChanges.WithLabelValues("remove").Inc()
	return out, nil
}

// FindWithMentions matches the user's current name against stored mention
// strings. Renaming a user hides earlier mentions of the old name.
func (s *CommentService) FindWithMentions(ctx context.Context, userID string) ([]domain.Comment, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.FindMentioning(ctx, u.Name)
}

func (s *CommentService) Stats(ctx context.Context, f domain.Filter) (domain.Stats, error) {
	comments, err := s.store.List(ctx, f, false)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(comments), nil
}

func (s *CommentService) notifyMentions(ctx context.Context, c domain.Comment) {
	if s.notifier == nil || len(c.Mentions) == 0 {
		return
	}
	log := logging.FromContext(ctx)

	mentioned, err := s.users.FindByNames(ctx, c.Mentions)
	if err != nil {
		log.Warnw("resolve mentions failed", "comment_id", c.ID, "error", err)
		return
	}
	for _, u := range mentioned {
		if u.ID == c.AuthorID {
			continue
		}
		n := notifdomain.Notification{
			UserID:      u.ID,
			Type:        notifdomain.TypeCommentMention,
			Title:       "You were mentioned",
			Message:     fmt.Sprintf("You were mentioned in a comment on task %d", c.TaskID),
			RelatedType: notifdomain.RelatedComment,
			RelatedID:   c.ID,
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			log.Warnw("mention notification failed", "comment_id", c.ID, "user_id", u.ID, "error", err)
		}
	}
}
