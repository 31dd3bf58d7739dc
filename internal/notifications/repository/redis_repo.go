package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ranwip/pm-backend/internal/notifications/domain"
)

const (
	listKeyPrefix      = "pm:notifications:"        // newest first: pm:notifications:{user_id}
	eventChannelPrefix = "pm:notifications:events:" // pub/sub per user: pm:notifications:events:{user_id}
	maxPerUser         = 100
	notificationTTL    = 30 * 24 * time.Hour
)

// Repo keeps each user's notifications in a capped Redis list and publishes
// new ones on the user's channel.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

func listKey(userID string) string { return listKeyPrefix + userID }

// Channel is the pub/sub channel new notifications for userID appear on.
func Channel(userID string) string { return eventChannelPrefix + userID }

func (r *Repo) Push(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := listKey(n.UserID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxPerUser-1)
	pipe.Expire(ctx, key, notificationTTL)
	pipe.Publish(ctx, Channel(n.UserID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// List returns the user's notifications, newest first. Entries that no
// longer decode are skipped.
func (r *Repo) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	raw, err := r.client.LRange(ctx, listKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(raw))
	for _, s := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, listKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
