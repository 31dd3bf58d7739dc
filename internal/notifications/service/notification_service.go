package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/metrics"
	"github.com/ranwip/pm-backend/internal/notifications/domain"
)

type Store interface {
	Push(ctx context.Context, n domain.Notification) error
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	Clear(ctx context.Context, userID string) error
}

type NotificationService struct {
	store Store
	now   func() time.Time
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store, now: time.Now}
}

// Send stamps n with an id and creation time and stores it for its user.
func (s *NotificationService) Send(ctx context.Context, n domain.Notification) error {
	if n.UserID == "" {
		return apperr.Validation("notification recipient is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}

	if err := s.store.Push(ctx, n); err != nil {
		metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "error").Inc()
		return err
	}
	metrics.NotificationsDelivered.WithLabelValues(string(n.Type), "ok").Inc()
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.List(ctx, userID)
}

func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
