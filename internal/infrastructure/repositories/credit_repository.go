package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreditRepository implements the credit ledger on Postgres. Debit relies
// on a conditional UPDATE so two concurrent debits for the same user can
// never spend the same credits twice.
type CreditRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCreditRepository(database *db.Database, logger *logrus.Logger) ports.CreditLedger {
	return &CreditRepository{db: database, logger: logger}
}

func (r *CreditRepository) CreateAccount(ctx context.Context, userID uuid.UUID, creditsTotal int) error {
	query := `
		INSERT INTO credit_accounts (user_id, credits_total, credits_used)
		VALUES ($1, $2, 0)`

	if _, err := r.db.DB.ExecContext(ctx, query, userID, creditsTotal); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to create credit account")
		}
		return fmt.Errorf("failed to create credit account: %w", err)
	}
	return nil
}

func (r *CreditRepository) Get(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	var a credit.Account
	query := `
		SELECT user_id, credits_total, credits_used, created_at, updated_at
		FROM credit_accounts
		WHERE user_id = $1`

	err := r.db.DB.GetContext(ctx, &a, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, credit.ErrAccountNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to get credit account")
		}
		return nil, fmt.Errorf("failed to get credit account: %w", err)
	}

	return &a, nil
}

// Debit consumes amount credits in one conditional write. The WHERE clause
// is the balance check, so the database serializes concurrent debits: of N
// simultaneous debits against a balance that covers only one, exactly one
// row update succeeds.
func (r *CreditRepository) Debit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	var remaining int
	query := `
		UPDATE credit_accounts
		SET credits_used = credits_used + $2, updated_at = NOW()
		WHERE user_id = $1 AND credits_total - credits_used >= $2
		RETURNING credits_total - credits_used`

	err := r.db.DB.GetContext(ctx, &remaining, query, userID, amount)
	if err == nil {
		return remaining, nil
	}
	if err != sql.ErrNoRows {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).WithError(err).Error("db: failed to debit credits")
		}
		return 0, fmt.Errorf("failed to debit credits: %w", err)
	}

	// The conditional update matched nothing: either the account does not
	// exist or the balance is short. Re-read to report which.
	account, err := r.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return 0, &credit.InsufficientCreditsError{Available: account.Available(), Required: amount}
}

func (r *CreditRepository) Grant(ctx context.Context, userID uuid.UUID, amount int) error {
	query := `
		UPDATE credit_accounts
		SET credits_total = credits_total + $2, updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, amount)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).WithError(err).Error("db: failed to grant credits")
		}
		return fmt.Errorf("failed to grant credits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return credit.ErrAccountNotFound
	}
	return nil
}
