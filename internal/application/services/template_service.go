package services

import (
	"context"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TemplateService struct {
	templateRepo ports.TemplateRepository
	logger       *logrus.Logger
}

func NewTemplateService(templateRepo ports.TemplateRepository, logger *logrus.Logger) ports.TemplateService {
	return &TemplateService{templateRepo: templateRepo, logger: logger}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, ownerID uuid.UUID, req *template.CreateTemplateRequest) (*template.Template, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if req.ContentHTML == "" {
		return nil, fmt.Errorf("template content is required")
	}

	now := time.Now()
	t := &template.Template{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		ContentHTML: req.ContentHTML,
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.templateRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"template_id": t.ID, "owner_id": ownerID}).Info("template created")
	}
	return t, nil
}

func (s *TemplateService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*template.Template, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, fmt.Errorf("template with ID %s not found", id)
	}
	return t, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, ownerID, id uuid.UUID) (*template.Template, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error) {
	return s.templateRepo.ListByOwner(ctx, ownerID)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, ownerID, id uuid.UUID, req *template.UpdateTemplateRequest) (*template.Template, error) {
	t, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.ContentHTML != nil {
		t.ContentHTML = *req.ContentHTML
	}
	if req.IsDefault != nil {
		t.IsDefault = *req.IsDefault
	}
	t.UpdatedAt = time.Now()

	if err := s.templateRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, id)
}
