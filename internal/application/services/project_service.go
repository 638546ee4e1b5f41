package services

import (
	"context"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProjectService struct {
	projectRepo ports.ProjectRepository
	logger      *logrus.Logger
}

func NewProjectService(projectRepo ports.ProjectRepository, logger *logrus.Logger) ports.ProjectService {
	return &ProjectService{projectRepo: projectRepo, logger: logger}
}

func (s *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, req *project.CreateProjectRequest) (*project.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	now := time.Now()
	p := &project.Project{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       req.Name,
		ClientName: req.ClientName,
		Address:    req.Address,
		Status:     project.StatusActive,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": ownerID}).Info("project created")
	}
	return p, nil
}

// getOwned loads a project and refuses records the caller does not own.
// Not-owned reads report not-found so ownership is not probeable.
func (s *ProjectService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*project.Project, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("project with ID %s not found", id)
	}
	return p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, ownerID, id uuid.UUID) (*project.Project, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *ProjectService) ListProjects(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.projectRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *ProjectService) UpdateProject(ctx context.Context, ownerID, id uuid.UUID, req *project.UpdateProjectRequest) (*project.Project, error) {
	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ClientName != nil {
		p.ClientName = *req.ClientName
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("invalid project status: %s", *req.Status)
		}
		p.Status = *req.Status
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	p.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}
