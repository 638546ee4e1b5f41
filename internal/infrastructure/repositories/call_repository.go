package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CallRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCallRepository(database *db.Database, logger *logrus.Logger) ports.CallRepository {
	return &CallRepository{db: database, logger: logger}
}

const callColumns = `id, project_id, owner_id, title, visit_date, notes, transcript, report_html, status, created_at, updated_at`

func (r *CallRepository) Create(ctx context.Context, c *call.Call) error {
	query := `
		INSERT INTO calls (id, project_id, owner_id, title, visit_date, notes, transcript, report_html, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.DB.ExecContext(ctx, query,
		c.ID, c.ProjectID, c.OwnerID, c.Title, c.VisitDate, c.Notes, c.Transcript, c.ReportHTML, c.Status)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"call_id": c.ID, "project_id": c.ProjectID}).WithError(err).Error("db: failed to create call")
		}
		return fmt.Errorf("failed to create call: %w", err)
	}

	return nil
}

func (r *CallRepository) GetByID(ctx context.Context, id uuid.UUID) (*call.Call, error) {
	var c call.Call
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE id = $1`, callColumns)

	err := r.db.DB.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("call with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"call_id": id}).WithError(err).Error("db: failed to get call")
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	return &c, nil
}

func (r *CallRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*call.Call, error) {
	var calls []*call.Call
	query := fmt.Sprintf(`
		SELECT %s FROM calls
		WHERE project_id = $1
		ORDER BY visit_date DESC
		LIMIT $2 OFFSET $3`, callColumns)

	err := r.db.DB.SelectContext(ctx, &calls, query, projectID, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": projectID}).WithError(err).Error("db: failed to list calls by project")
		}
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	return calls, nil
}

func (r *CallRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*call.Call, error) {
	var calls []*call.Call
	query := fmt.Sprintf(`
		SELECT %s FROM calls
		WHERE owner_id = $1
		ORDER BY visit_date DESC
		LIMIT $2 OFFSET $3`, callColumns)

	err := r.db.DB.SelectContext(ctx, &calls, query, ownerID, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"owner_id": ownerID}).WithError(err).Error("db: failed to list calls by owner")
		}
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	return calls, nil
}

func (r *CallRepository) Update(ctx context.Context, c *call.Call) error {
	query := `
		UPDATE calls
		SET title = $2, visit_date = $3, notes = $4, transcript = $5, report_html = $6, status = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		c.ID, c.Title, c.VisitDate, c.Notes, c.Transcript, c.ReportHTML, c.Status, c.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"call_id": c.ID}).WithError(err).Error("db: failed to update call")
		}
		return fmt.Errorf("failed to update call: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("call with ID %s not found", c.ID)
	}

	return nil
}

func (r *CallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM calls WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"call_id": id}).WithError(err).Error("db: failed to delete call")
		}
		return fmt.Errorf("failed to delete call: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("call with ID %s not found", id)
	}

	return nil
}
