package service

import (
	"context"

	"github.com/ranwip/pm-backend/internal/projects/domain"
)

type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context, status *domain.Status) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Store
}

func NewProjectService(repo Store) *ProjectService {
	return &ProjectService{
		repo: repo,
	}
}

// Create stores a project owned by ownerID, filling status and priority defaults.
func (s *ProjectService) Create(ctx context.Context, ownerID string, p domain.Project) (*domain.Project, error) {
	p.OwnerID = ownerID
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

// Exists resolves a project id for other features.
func (s *ProjectService) Exists(ctx context.Context, id int64) error {
	_, err := s.repo.Get(ctx, id)
	return err
}

func (s *ProjectService) List(ctx context.Context, status *domain.Status) ([]domain.Project, error) {
	return s.repo.List(ctx, status)
}

func (s *ProjectService) Update(ctx context.Context, id int64, req domain.UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.Budget != nil {
		p.Budget = req.Budget
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project; its tasks and their entries cascade.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(id)
	}
	return nil
}
