package ports

import (
	"context"

	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/google/uuid"
)

// ProjectRepository defines persistence for construction projects
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error)
	Update(ctx context.Context, p *project.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectService defines owner-scoped project operations. Every accessor
// takes the acting user's id and refuses records the user does not own.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, req *project.CreateProjectRequest) (*project.Project, error)
	GetProject(ctx context.Context, ownerID, id uuid.UUID) (*project.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error)
	UpdateProject(ctx context.Context, ownerID, id uuid.UUID, req *project.UpdateProjectRequest) (*project.Project, error)
	DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error
}
