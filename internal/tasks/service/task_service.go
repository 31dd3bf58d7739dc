package service

import (
	"context"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/logging"
	"github.com/ranwip/pm-backend/internal/metrics"
	"github.com/ranwip/pm-backend/internal/tasks/domain"
)

type Store interface {
	Create(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) (bool, error)
	IncrementLoggedHours(ctx context.Context, id int64, delta int) (*domain.Task, error)
}

type UserLookup interface {
	Exists(ctx context.Context, id string) error
}

type ProjectLookup interface {
	Exists(ctx context.Context, id int64) error
}

type TaskService struct {
	store    Store
	users    UserLookup
	projects ProjectLookup
}

func NewTaskService(store Store, users UserLookup, projects ProjectLookup) *TaskService {
	return &TaskService{store: store, users: users, projects: projects}
}

// Create resolves every referenced id before inserting.
func (s *TaskService) Create(ctx context.Context, t domain.Task) (*domain.Task, error) {
	if err := s.projects.Exists(ctx, t.ProjectID); err != nil {
		return nil, err
	}
	if err := s.users.Exists(ctx, t.ReporterID); err != nil {
		return nil, err
	}
	if t.AssigneeID != nil {
		if err := s.users.Exists(ctx, *t.AssigneeID); err != nil {
			return nil, err
		}
	}
	if t.ParentTaskID != nil {
		if _, err := s.store.Get(ctx, *t.ParentTaskID); err != nil {
			return nil, err
		}
	}
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t.LoggedHours = 0

	if err := s.store.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.store.Get(ctx, id)
}

// Exists resolves a task id for other features.
func (s *TaskService) Exists(ctx context.Context, id int64) error {
	_, err := s.store.Get(ctx, id)
	return err
}

func (s *TaskService) List(ctx context.Context, f domain.ListFilter) ([]domain.Task, error) {
	return s.store.List(ctx, f)
}

func (s *TaskService) Update(ctx context.Context, id int64, req domain.UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	switch {
	case req.ClearAssignee:
		t.AssigneeID = nil
	case req.AssigneeID != nil:
		if err := s.users.Exists(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = req.AssigneeID
	}
	if req.ParentTaskID != nil {
		if *req.ParentTaskID == id {
			return nil, apperr.Validation("Task %d cannot be its own parent", id)
		}
		if _, err := s.store.Get(ctx, *req.ParentTaskID); err != nil {
			return nil, err
		}
		t.ParentTaskID = req.ParentTaskID
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		t.EstimatedHours = req.EstimatedHours
	}
	if req.Tags != nil {
		t.Tags = req.Tags
	}
	if req.StoryPoints != nil {
		t.StoryPoints = req.StoryPoints
	}

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(id)
	}
	return nil
}

// AddLoggedHours adds delta straight onto the task's logged hours without a
// time entry. The result can drift from the entry sum until the next
// reconciliation of the task overwrites it.
func (s *TaskService) AddLoggedHours(ctx context.Context, id int64, delta int) (*domain.Task, error) {
	t, err := s.store.IncrementLoggedHours(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	metrics.DirectHourIncrements.Inc()
	logging.FromContext(ctx).Warnw("logged hours changed without a time entry",
		"task_id", id,
		"delta", delta,
		"logged_hours", t.LoggedHours,
	)
	return t, nil
}
