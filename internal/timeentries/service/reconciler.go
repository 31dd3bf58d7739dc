package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ranwip/pm-backend/internal/logging"
	"github.com/ranwip/pm-backend/internal/metrics"
	notifdomain "github.com/ranwip/pm-backend/internal/notifications/domain"
	taskdomain "github.com/ranwip/pm-backend/internal/tasks/domain"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

type EntryStore interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	Get(ctx context.Context, id int64) (*domain.TimeEntry, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f domain.Filter) ([]domain.TimeEntry, error)
	SumHoursByTask(ctx context.Context, taskID int64) (int, error)
}

type TaskStore interface {
	GetForUpdate(ctx context.Context, id int64) (*taskdomain.Task, error)
	SetLoggedHours(ctx context.Context, id int64, hours int) error
}

type UserLookup interface {
	Exists(ctx context.Context, id string) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers best-effort notifications after a write commits.
type Notifier interface {
	Send(ctx context.Context, n notifdomain.Notification) error
}

// Reconciler owns time-entry writes. Every write and the recomputation of
// the affected tasks' logged hours commit together. Locks are taken entry
// first, then tasks in ascending id order.
type Reconciler struct {
	entries  EntryStore
	tasks    TaskStore
	users    UserLookup
	tx       Transactor
	notifier Notifier
}

func NewReconciler(entries EntryStore, tasks TaskStore, users UserLookup, tx Transactor, notifier Notifier) *Reconciler {
	return &Reconciler{entries: entries, tasks: tasks, users: users, tx: tx, notifier: notifier}
}

// Create validates and stores an entry, then recomputes its task's hours.
func (r *Reconciler) Create(ctx context.Context, e domain.TimeEntry) (*domain.TimeEntry, error) {
	var task *taskdomain.Task
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := r.lockTasks(ctx, e.TaskID)
		if err != nil {
			return err
		}
		task = locked[e.TaskID]

		if err := r.users.Exists(ctx, e.UserID); err != nil {
			return err
		}
		if err := domain.Validate(e); err != nil {
			return err
		}
		if err := r.entries.Create(ctx, &e); err != nil {
			return err
		}
		return r.recompute(ctx, e.TaskID)
	})
	observe("create", err)
	if err != nil {
		return nil, err
	}

	r.notifyTimeLogged(ctx, e, task)
	return &e, nil
}

// Update applies patch to entry id. The duration check is re-run only when
// the patch carries start, end and hours together. Both the original task
// and, when it changed, the new task are recomputed.
func (r *Reconciler) Update(ctx context.Context, id int64, patch domain.UpdateEntryRequest) (*domain.TimeEntry, error) {
	var out *domain.TimeEntry
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := r.entries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		oldTaskID := e.TaskID

		taskIDs := []int64{oldTaskID}
		if patch.TaskID != nil && *patch.TaskID != oldTaskID {
			taskIDs = append(taskIDs, *patch.TaskID)
		}
		if _, err := r.lockTasks(ctx, taskIDs...); err != nil {
			return err
		}

		if patch.UserID != nil && *patch.UserID != e.UserID {
			if err := r.users.Exists(ctx, *patch.UserID); err != nil {
				return err
			}
		}
		if patch.StartTime != nil && patch.EndTime != nil && patch.Hours != nil {
			if err := domain.CheckDuration(*patch.StartTime, *patch.EndTime, *patch.Hours); err != nil {
				return err
			}
		}

		apply(e, patch)
		if err := domain.ValidateFields(*e); err != nil {
			return err
		}
		if err := r.entries.Update(ctx, e); err != nil {
			return err
		}
		if err := r.recompute(ctx, taskIDs...); err != nil {
			return err
		}
		out = e
		return nil
	})
	observe("update", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the entry and recomputes its task.
func (r *Reconciler) Remove(ctx context.Context, id int64) error {
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := r.entries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := r.lockTasks(ctx, e.TaskID); err != nil {
			return err
		}
		ok, err := r.entries.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound(id)
		}
		return r.recompute(ctx, e.TaskID)
	})
	observe("remove", err)
	return err
}

func (r *Reconciler) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	return r.entries.Get(ctx, id)
}

func (r *Reconciler) List(ctx context.Context, f domain.Filter) ([]domain.TimeEntry, error) {
	return r.entries.List(ctx, f)
}

// Reconcile recomputes logged hours for the given tasks on demand.
func (r *Reconciler) Reconcile(ctx context.Context, taskIDs ...int64) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := r.lockTasks(ctx, taskIDs...); err != nil {
			return err
		}
		return r.recompute(ctx, taskIDs...)
	})
}

// lockTasks row-locks each distinct task in ascending id order. A missing
// task fails with NotFound.
func (r *Reconciler) lockTasks(ctx context.Context, ids ...int64) (map[int64]*taskdomain.Task, error) {
	ordered := uniqueSorted(ids)
	out := make(map[int64]*taskdomain.Task, len(ordered))
	for _, id := range ordered {
		t, err := r.tasks.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = t
	}
	return out, nil
}

// recompute sets logged_hours to the entry sum. Callers hold the task locks.
func (r *Reconciler) recompute(ctx context.Context, ids ...int64) error {
	for _, id := range uniqueSorted(ids) {
		start := time.Now()
		total, err := r.entries.SumHoursByTask(ctx, id)
		if err != nil {
			return fmt.Errorf("sum hours for task %d: %w", id, err)
		}
		if err := r.tasks.SetLoggedHours(ctx, id, total); err != nil {
			return err
		}
		metrics.Reconciliations.Inc()
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
		logging.FromContext(ctx).Debugw("task hours reconciled", "task_id", id, "logged_hours", total)
	}
	return nil
}

func (r *Reconciler) notifyTimeLogged(ctx context.Context, e domain.TimeEntry, task *taskdomain.Task) {
	if r.notifier == nil || task == nil || task.AssigneeID == nil || *task.AssigneeID == e.UserID {
		return
	}
	n := notifdomain.Notification{
		UserID:      *task.AssigneeID,
		Type:        notifdomain.TypeTimeLogged,
		Title:       "Time logged",
		Message:     fmt.Sprintf("%d hours logged on %q", e.Hours, task.Title),
		RelatedType: notifdomain.RelatedTask,
		RelatedID:   task.ID,
	}
	if err := r.notifier.Send(ctx, n); err != nil {
		logging.FromContext(ctx).Warnw("time logged notification failed", "task_id", task.ID, "error", err)
	}
}

func apply(e *domain.TimeEntry, p domain.UpdateEntryRequest) {
	if p.TaskID != nil {
		e.TaskID = *p.TaskID
	}
	if p.UserID != nil {
		e.UserID = *p.UserID
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Hours != nil {
		e.Hours = *p.Hours
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = p.EndTime
	}
	if p.Billable != nil {
		e.Billable = *p.Billable
	}
}

func uniqueSorted(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.TimeEntryOps.WithLabelValues(op, result).Inc()
}
