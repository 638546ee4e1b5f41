package ports

import (
	"context"

	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/google/uuid"
)

// TemplateRepository defines persistence for report templates
type TemplateRepository interface {
	Create(ctx context.Context, t *template.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*template.Template, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error)
	Update(ctx context.Context, t *template.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateService defines owner-scoped template operations
type TemplateService interface {
	CreateTemplate(ctx context.Context, ownerID uuid.UUID, req *template.CreateTemplateRequest) (*template.Template, error)
	GetTemplate(ctx context.Context, ownerID, id uuid.UUID) (*template.Template, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error)
	UpdateTemplate(ctx context.Context, ownerID, id uuid.UUID, req *template.UpdateTemplateRequest) (*template.Template, error)
	DeleteTemplate(ctx context.Context, ownerID, id uuid.UUID) error
}
