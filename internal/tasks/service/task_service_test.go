package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/tasks/domain"
)

type memTasks struct {
	byID map[int64]*domain.Task
	seq  int64
}

func newMemTasks() *memTasks { return &memTasks{byID: map[int64]*domain.Task{}} }

func (m *memTasks) Create(_ context.Context, t *domain.Task) error {
	m.seq++
	t.ID = m.seq
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *memTasks) Get(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	cp := *t
	return &cp, nil
}

func (m *memTasks) List(context.Context, domain.ListFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.byID {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTasks) Update(_ context.Context, t *domain.Task) error {
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *memTasks) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.byID[id]
	delete(m.byID, id)
	return ok, nil
}

func (m *memTasks) IncrementLoggedHours(_ context.Context, id int64, delta int) (*domain.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	t.LoggedHours += delta
	cp := *t
	return &cp, nil
}

type knownUsers map[string]bool

func (k knownUsers) Exists(_ context.Context, id string) error {
	if !k[id] {
		return apperr.NotFound("User with ID %s not found", id)
	}
	return nil
}

type knownProjects map[int64]bool

func (k knownProjects) Exists(_ context.Context, id int64) error {
	if !k[id] {
		return apperr.NotFound("Project with ID %d not found", id)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestTaskService_CreateResolvesReferences(t *testing.T) {
	svc := NewTaskService(newMemTasks(), knownUsers{"rep": true, "dev": true}, knownProjects{1: true})
	ctx := context.Background()

	task, err := svc.Create(ctx, domain.Task{Title: "A", ProjectID: 1, ReporterID: "rep", AssigneeID: strPtr("dev"), LoggedHours: 40})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Zero(t, task.LoggedHours, "new tasks start with no logged hours")

	tests := []struct {
		name string
		task domain.Task
	}{
		{"unknown project", domain.Task{Title: "B", ProjectID: 2, ReporterID: "rep"}},
		{"unknown reporter", domain.Task{Title: "B", ProjectID: 1, ReporterID: "ghost"}},
		{"unknown assignee", domain.Task{Title: "B", ProjectID: 1, ReporterID: "rep", AssigneeID: strPtr("ghost")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.task)
			assert.True(t, errors.Is(err, apperr.ErrNotFound))
		})
	}
}

func TestTaskService_UpdateRejectsSelfParent(t *testing.T) {
	store := newMemTasks()
	svc := NewTaskService(store, knownUsers{"rep": true}, knownProjects{1: true})
	ctx := context.Background()

	task, err := svc.Create(ctx, domain.Task{Title: "A", ProjectID: 1, ReporterID: "rep"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, task.ID, domain.UpdateTaskRequest{ParentTaskID: &task.ID})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestTaskService_AddLoggedHours(t *testing.T) {
	store := newMemTasks()
	svc := NewTaskService(store, knownUsers{"rep": true}, knownProjects{1: true})
	ctx := context.Background()

	task, err := svc.Create(ctx, domain.Task{Title: "A", ProjectID: 1, ReporterID: "rep"})
	require.NoError(t, err)

	got, err := svc.AddLoggedHours(ctx, task.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.LoggedHours)

	_, err = svc.AddLoggedHours(ctx, 404, 3)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
