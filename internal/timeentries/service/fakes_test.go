package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/dates"
	notifdomain "github.com/ranwip/pm-backend/internal/notifications/domain"
	taskdomain "github.com/ranwip/pm-backend/internal/tasks/domain"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

// world is an in-memory store for entries and tasks. fakeTx snapshots it so
// a failed unit of work leaves no trace.
type world struct {
	mu      sync.Mutex
	entries map[int64]domain.TimeEntry
	tasks   map[int64]taskdomain.Task
	users   map[string]bool
	seq     int64

	locked   []int64
	failSet  error
	projects map[int64]bool
}

func newWorld() *world {
	return &world{
		entries:  map[int64]domain.TimeEntry{},
		tasks:    map[int64]taskdomain.Task{},
		users:    map[string]bool{},
		projects: map[int64]bool{},
	}
}

func (w *world) addTask(id int64, assignee *string) {
	w.tasks[id] = taskdomain.Task{ID: id, Title: "task", ProjectID: 1, AssigneeID: assignee}
}

func (w *world) snapshot() (map[int64]domain.TimeEntry, map[int64]taskdomain.Task, int64) {
	e := make(map[int64]domain.TimeEntry, len(w.entries))
	for k, v := range w.entries {
		e[k] = v
	}
	t := make(map[int64]taskdomain.Task, len(w.tasks))
	for k, v := range w.tasks {
		t[k] = v
	}
	return e, t, w.seq
}

func (w *world) sumFor(taskID int64) int {
	total := 0
	for _, e := range w.entries {
		if e.TaskID == taskID {
			total += e.Hours
		}
	}
	return total
}

type fakeTx struct{ w *world }

func (f fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	entries, tasks, seq := f.w.snapshot()
	if err := fn(ctx); err != nil {
		f.w.entries, f.w.tasks, f.w.seq = entries, tasks, seq
		return err
	}
	return nil
}

type entryStore struct{ w *world }

func (s entryStore) Create(_ context.Context, e *domain.TimeEntry) error {
	s.w.seq++
	e.ID = s.w.seq
	s.w.entries[e.ID] = *e
	return nil
}

func (s entryStore) Get(_ context.Context, id int64) (*domain.TimeEntry, error) {
	e, ok := s.w.entries[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	return &e, nil
}

func (s entryStore) GetForUpdate(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return s.Get(ctx, id)
}

func (s entryStore) Update(_ context.Context, e *domain.TimeEntry) error {
	if _, ok := s.w.entries[e.ID]; !ok {
		return domain.NotFound(e.ID)
	}
	s.w.entries[e.ID] = *e
	return nil
}

func (s entryStore) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := s.w.entries[id]
	delete(s.w.entries, id)
	return ok, nil
}

func (s entryStore) List(_ context.Context, f domain.Filter) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, e := range s.w.entries {
		if f.TaskID != nil && e.TaskID != *f.TaskID {
			continue
		}
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.Billable != nil && e.Billable != *f.Billable {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s entryStore) SumHoursByTask(_ context.Context, taskID int64) (int, error) {
	return s.w.sumFor(taskID), nil
}

func (s entryStore) Totals(_ context.Context, f domain.Filter) (domain.HoursSummary, error) {
	var sum domain.HoursSummary
	for _, e := range s.w.entries {
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.ProjectID != nil && s.w.tasks[e.TaskID].ProjectID != *f.ProjectID {
			continue
		}
		if f.From != nil && e.Date.Before(f.From.Time) {
			continue
		}
		if f.To != nil && e.Date.After(f.To.Time) {
			continue
		}
		sum.Total += e.Hours
		if e.Billable {
			sum.Billable += e.Hours
		}
	}
	sum.NonBillable = sum.Total - sum.Billable
	return sum, nil
}

func (s entryStore) Week(_ context.Context, userID string, from, to dates.Date) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, e := range s.w.entries {
		if e.UserID == userID && !e.Date.Before(from.Time) && !e.Date.After(to.Time) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

type taskStore struct{ w *world }

func (s taskStore) GetForUpdate(_ context.Context, id int64) (*taskdomain.Task, error) {
	t, ok := s.w.tasks[id]
	if !ok {
		return nil, taskdomain.NotFound(id)
	}
	s.w.locked = append(s.w.locked, id)
	return &t, nil
}

func (s taskStore) SetLoggedHours(_ context.Context, id int64, hours int) error {
	if s.w.failSet != nil {
		return s.w.failSet
	}
	t, ok := s.w.tasks[id]
	if !ok {
		return taskdomain.NotFound(id)
	}
	if hours > taskdomain.MaxLoggedHours {
		return taskdomain.LoggedHoursOutOfRange(id, hours)
	}
	t.LoggedHours = hours
	s.w.tasks[id] = t
	return nil
}

type userLookup struct{ w *world }

func (u userLookup) Exists(_ context.Context, id string) error {
	if !u.w.users[id] {
		return apperr.NotFound("User with ID %s not found", id)
	}
	return nil
}

type projectLookup struct{ w *world }

func (p projectLookup) Exists(_ context.Context, id int64) error {
	if !p.w.projects[id] {
		return apperr.NotFound("Project with ID %d not found", id)
	}
	return nil
}

type recordingNotifier struct {
	sent []notifdomain.Notification
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, n notifdomain.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

var errBoom = errors.New("boom")
