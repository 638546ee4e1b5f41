package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type usageRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewUsageRepository creates the Postgres-backed usage log.
func NewUsageRepository(database *db.Database, logger *logrus.Logger) ports.UsageRepository {
	return &usageRepository{db: database, logger: logger}
}

func (r *usageRepository) Append(ctx context.Context, entry *credit.UsageEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO usage_log (id, user_id, operation, cost, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.DB.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Operation, entry.Cost, entry.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": entry.UserID, "operation": entry.Operation}).WithError(err).Error("db: failed to insert usage entry")
		}
		return fmt.Errorf("failed to insert usage entry: %w", err)
	}
	return nil
}

func (r *usageRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error) {
	var entries []*credit.UsageEntry
	query := `
		SELECT id, user_id, operation, cost, created_at
		FROM usage_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.DB.SelectContext(ctx, &entries, query, userID, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list usage entries")
		}
		return nil, fmt.Errorf("failed to list usage entries: %w", err)
	}

	return entries, nil
}
