package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TemplateRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewTemplateRepository(database *db.Database, logger *logrus.Logger) ports.TemplateRepository {
	return &TemplateRepository{db: database, logger: logger}
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	query := `
		INSERT INTO report_templates (id, owner_id, name, description, content_html, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.Name, t.Description, t.ContentHTML, t.IsDefault)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"template_id": t.ID, "owner_id": t.OwnerID}).WithError(err).Error("db: failed to create template")
		}
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	var t template.Template
	query := `
		SELECT id, owner_id, name, description, content_html, is_default, created_at, updated_at
		FROM report_templates
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"template_id": id}).WithError(err).Error("db: failed to get template")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &t, nil
}

func (r *TemplateRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error) {
	var templates []*template.Template
	query := `
		SELECT id, owner_id, name, description, content_html, is_default, created_at, updated_at
		FROM report_templates
		WHERE owner_id = $1
		ORDER BY is_default DESC, name ASC`

	err := r.db.DB.SelectContext(ctx, &templates, query, ownerID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"owner_id": ownerID}).WithError(err).Error("db: failed to list templates")
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *template.Template) error {
	query := `
		UPDATE report_templates
		SET name = $2, description = $3, content_html = $4, is_default = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.ContentHTML, t.IsDefault, t.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"template_id": t.ID}).WithError(err).Error("db: failed to update template")
		}
		return fmt.Errorf("failed to update template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("template with ID %s not found", t.ID)
	}

	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM report_templates WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"template_id": id}).WithError(err).Error("db: failed to delete template")
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("template with ID %s not found", id)
	}

	return nil
}
