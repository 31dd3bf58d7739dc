package service

import (
	"context"
	"time"

	"github.com/ranwip/pm-backend/internal/users/domain"
)

// Store is the persistence surface the user service needs.
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByNames(ctx context.Context, names []string) ([]domain.User, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) (bool, error)
	SetPresence(ctx context.Context, id string, p domain.Presence, at time.Time) error
}

type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.store.GetByID(ctx, id)
}

// Exists satisfies the lookups other features use to resolve user ids.
func (s *UserService) Exists(ctx context.Context, id string) error {
	_, err := s.store.GetByID(ctx, id)
	return err
}

func (s *UserService) FindByNames(ctx context.Context, names []string) ([]domain.User, error) {
	return s.store.FindByNames(ctx, names)
}

func (s *UserService) List(ctx context.Context, f domain.ListFilter) ([]domain.User, error) {
	return s.store.List(ctx, f)
}

func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Department != nil {
		u.Department = *req.Department
	}
	if req.Avatar != nil {
		u.Avatar = req.Avatar
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if req.Skills != nil {
		u.Skills = req.Skills
	}
	if req.Capacity != nil {
		u.Capacity = *req.Capacity
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(id)
	}
	return nil
}
