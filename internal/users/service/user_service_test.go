package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/users/domain"
)

type memStore struct {
	users map[string]*domain.User
}

func newMemStore(us ...domain.User) *memStore {
	m := &memStore{users: map[string]*domain.User{}}
	for i := range us {
		u := us[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *memStore) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *memStore) FindByNames(_ context.Context, names []string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		for _, n := range names {
			if u.Name == n {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, f domain.ListFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, u *domain.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return domain.NotFound(u.ID)
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	_, ok := m.users[id]
	delete(m.users, id)
	return ok, nil
}

func (m *memStore) SetPresence(_ context.Context, id string, p domain.Presence, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return domain.NotFound(id)
	}
	u.Presence = p
	u.PresenceChangedAt = &at
	return nil
}

func TestUserService_Update(t *testing.T) {
	store := newMemStore(domain.User{ID: "u1", Name: "Alex", Role: domain.RoleDeveloper, Capacity: 40})
	svc := NewUserService(store)

	name := "Alex Kim"
	role := domain.RoleTeamLead
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Alex Kim", u.Name)
	assert.Equal(t, domain.RoleTeamLead, u.Role)
	assert.Equal(t, 40, u.Capacity)

	_, err = svc.Update(context.Background(), "missing", domain.UpdateUserRequest{Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUserService_Delete(t *testing.T) {
	svc := NewUserService(newMemStore(domain.User{ID: "u1"}))

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	err := svc.Delete(context.Background(), "u1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
