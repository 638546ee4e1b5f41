package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProjectRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewProjectRepository(database *db.Database, logger *logrus.Logger) ports.ProjectRepository {
	return &ProjectRepository{db: database, logger: logger}
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, name, client_name, address, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.Name, p.ClientName, p.Address, p.Status, p.Notes)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": p.OwnerID}).WithError(err).Error("db: failed to create project")
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p project.Project
	query := `
		SELECT id, owner_id, name, client_name, address, status, notes, created_at, updated_at
		FROM projects
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": id}).WithError(err).Error("db: failed to get project")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error) {
	var projects []*project.Project
	query := `
		SELECT id, owner_id, name, client_name, address, status, notes, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.DB.SelectContext(ctx, &projects, query, ownerID, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"owner_id": ownerID}).WithError(err).Error("db: failed to list projects")
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	query := `
		UPDATE projects
		SET name = $2, client_name = $3, address = $4, status = $5, notes = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.ClientName, p.Address, p.Status, p.Notes, p.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": p.ID}).WithError(err).Error("db: failed to update project")
		}
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project with ID %s not found", p.ID)
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": id}).WithError(err).Error("db: failed to delete project")
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project with ID %s not found", id)
	}

	return nil
}
