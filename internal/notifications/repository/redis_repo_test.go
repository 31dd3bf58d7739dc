package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/notifications/domain"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRepo_PushAndList(t *testing.T) {
	client, mr := setupRedis(t)
	repo := NewRepo(client)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Push(ctx, domain.Notification{
			ID:     fmt.Sprintf("n%d", i),
			UserID: "u1",
			Type:   domain.TypeTimeLogged,
			Title:  "Time logged",
		}))
	}

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "n3", got[0].ID, "newest first")
	assert.Equal(t, "n1", got[2].ID)

	ttl := mr.TTL("pm:notifications:u1")
	assert.Equal(t, 30*24*time.Hour, ttl)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRepo_CapsPerUser(t *testing.T) {
	client, mr := setupRedis(t)
	repo := NewRepo(client)
	ctx := context.Background()

	for i := 0; i < maxPerUser+5; i++ {
		require.NoError(t, repo.Push(ctx, domain.Notification{ID: fmt.Sprint(i), UserID: "u1"}))
	}

	items, err := mr.List("pm:notifications:u1")
	require.NoError(t, err)
	assert.Len(t, items, maxPerUser)

	var newest domain.Notification
	require.NoError(t, json.Unmarshal([]byte(items[0]), &newest))
	assert.Equal(t, fmt.Sprint(maxPerUser+4), newest.ID)
}

func TestRepo_PublishesToUserChannel(t *testing.T) {
	client, _ := setupRedis(t)
	repo := NewRepo(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, Channel("u1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx, domain.Notification{ID: "n1", UserID: "u1", Type: domain.TypeCommentMention}))

	select {
	case msg := <-sub.Channel():
		var n domain.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &n))
		assert.Equal(t, "n1", n.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestRepo_ClearAndSkipsGarbage(t *testing.T) {
	client, mr := setupRedis(t)
	repo := NewRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Push(ctx, domain.Notification{ID: "n1", UserID: "u1"}))
	_, err := mr.Lpush("pm:notifications:u1", "not json")
	require.NoError(t, err)

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, repo.Clear(ctx, "u1"))
	assert.False(t, mr.Exists("pm:notifications:u1"))
	require.NoError(t, repo.Ping(ctx))
}
