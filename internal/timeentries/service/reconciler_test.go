package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/dates"
	notifdomain "github.com/ranwip/pm-backend/internal/notifications/domain"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	w        *world
	notifier *recordingNotifier
	rec      *Reconciler
}

func newFixture() *fixture {
	w := newWorld()
	w.users["alice"] = true
	w.users["bob"] = true
	w.addTask(1, ptr("bob"))
	w.addTask(2, nil)
	w.addTask(5, ptr("alice"))

	n := &recordingNotifier{}
	return &fixture{
		w:        w,
		notifier: n,
		rec:      NewReconciler(entryStore{w}, taskStore{w}, userLookup{w}, fakeTx{w}, n),
	}
}

func (f *fixture) logged(taskID int64) int { return f.w.tasks[taskID].LoggedHours }

func entry(taskID int64, user string, hours int) domain.TimeEntry {
	return domain.TimeEntry{TaskID: taskID, UserID: user, Hours: hours, Date: dates.New(2025, 1, 15), Billable: true}
}

func TestReconciler_CreateWithMatchingInterval(t *testing.T) {
	f := newFixture()
	e := entry(1, "alice", 8)
	e.StartTime, e.EndTime = ptr("09:00"), ptr("17:00")

	got, err := f.rec.Create(context.Background(), e)
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, 8, f.logged(1))
}

func TestReconciler_CreateRejectsMismatch(t *testing.T) {
	f := newFixture()
	e := entry(1, "alice", 3)
	e.StartTime, e.EndTime = ptr("09:00"), ptr("17:00")

	_, err := f.rec.Create(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "(3)")
	assert.Contains(t, err.Error(), "(8)")
	assert.Empty(t, f.w.entries)
	assert.Zero(t, f.logged(1))
}

func TestReconciler_CreateAcrossMidnight(t *testing.T) {
	f := newFixture()
	e := entry(2, "alice", 4)
	e.StartTime, e.EndTime = ptr("22:00"), ptr("02:00")

	_, err := f.rec.Create(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, 4, f.logged(2))
}

func TestReconciler_CreateUnknownReferences(t *testing.T) {
	f := newFixture()

	_, err := f.rec.Create(context.Background(), entry(42, "alice", 1))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.EqualError(t, err, "Task with ID 42 not found")

	_, err = f.rec.Create(context.Background(), entry(1, "mallory", 1))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Empty(t, f.w.entries)
}

func TestReconciler_LoggedHoursTracksEntrySum(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.rec.Create(ctx, entry(1, "alice", 3))
	require.NoError(t, err)
	b, err := f.rec.Create(ctx, entry(1, "bob", 5))
	require.NoError(t, err)
	assert.Equal(t, 8, f.logged(1))

	_, err = f.rec.Update(ctx, a.ID, domain.UpdateEntryRequest{Hours: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, 11, f.logged(1))

	// moving an entry recomputes both tasks
	_, err = f.rec.Update(ctx, b.ID, domain.UpdateEntryRequest{TaskID: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, 6, f.logged(1))
	assert.Equal(t, 5, f.logged(2))

	require.NoError(t, f.rec.Remove(ctx, a.ID))
	assert.Equal(t, 0, f.logged(1))
	assert.Equal(t, 5, f.logged(2))

	for id := range f.w.tasks {
		assert.Equal(t, f.w.sumFor(id), f.logged(id), "task %d", id)
	}
}

func TestReconciler_UpdateLocksTasksInAscendingOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.rec.Create(ctx, entry(5, "alice", 2))
	require.NoError(t, err)

	f.w.locked = nil
	_, err = f.rec.Update(ctx, e.ID, domain.UpdateEntryRequest{TaskID: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, f.w.locked)
}

func TestReconciler_UpdateUnknownTargets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.rec.Create(ctx, entry(1, "alice", 2))
	require.NoError(t, err)

	_, err = f.rec.Update(ctx, 999, domain.UpdateEntryRequest{Hours: ptr(1)})
	assert.EqualError(t, err, "Time entry with ID 999 not found")

	_, err = f.rec.Update(ctx, e.ID, domain.UpdateEntryRequest{TaskID: ptr(int64(77))})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.rec.Update(ctx, e.ID, domain.UpdateEntryRequest{UserID: ptr("mallory")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.Equal(t, int64(1), f.w.entries[e.ID].TaskID)
	assert.Equal(t, 2, f.logged(1))
}

func TestReconciler_UpdateDurationCheckNeedsAllThreeFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e := entry(1, "alice", 8)
	e.StartTime, e.EndTime = ptr("09:00"), ptr("17:00")
	created, err := f.rec.Create(ctx, e)
	require.NoError(t, err)

	// hours alone is accepted even though it disagrees with the stored interval
	_, err = f.rec.Update(ctx, created.ID, domain.UpdateEntryRequest{Hours: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, f.logged(1))

	_, err = f.rec.Update(ctx, created.ID, domain.UpdateEntryRequest{
		StartTime: ptr("09:00"), EndTime: ptr("10:00"), Hours: ptr(5),
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, 2, f.w.entries[created.ID].Hours)

	_, err = f.rec.Update(ctx, created.ID, domain.UpdateEntryRequest{
		StartTime: ptr("09:00"), EndTime: ptr("10:00"), Hours: ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.logged(1))
}

func TestReconciler_RollsBackWhenRecomputeFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.w.failSet = errBoom
	_, err := f.rec.Create(ctx, entry(1, "alice", 3))
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.w.entries)
	assert.Zero(t, f.logged(1))
}

func TestReconciler_Remove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.rec.Remove(ctx, 123)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	e, err := f.rec.Create(ctx, entry(2, "bob", 7))
	require.NoError(t, err)
	require.NoError(t, f.rec.Remove(ctx, e.ID))
	assert.Zero(t, f.logged(2))
	_, err = f.rec.Get(ctx, e.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReconciler_NotifiesAssignee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.rec.Create(ctx, entry(1, "alice", 2))
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, "bob", n.UserID)
	assert.Equal(t, notifdomain.TypeTimeLogged, n.Type)
	assert.Equal(t, int64(1), n.RelatedID)

	// own task, no assignee: nothing sent
	_, err = f.rec.Create(ctx, entry(5, "alice", 1))
	require.NoError(t, err)
	_, err = f.rec.Create(ctx, entry(2, "alice", 1))
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)

	f.notifier.err = errBoom
	_, err = f.rec.Create(ctx, entry(1, "alice", 1))
	assert.NoError(t, err, "delivery failures never fail the write")
	assert.Equal(t, 3, f.logged(1))
}

func TestReconciler_Reconcile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.rec.Create(ctx, entry(1, "alice", 4))
	require.NoError(t, err)
	tk := f.w.tasks[1]
	tk.LoggedHours = 40
	f.w.tasks[1] = tk

	require.NoError(t, f.rec.Reconcile(ctx, 1))
	assert.Equal(t, 4, f.logged(1))
}
