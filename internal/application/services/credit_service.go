package services

import (
	"context"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreditService meters paid operations against externally persisted
// accounts. All balance mutations go through the ledger's conditional
// primitives; this service never does a read-then-write on the balance.
type CreditService struct {
	ledger      ports.CreditLedger
	usageRepo   ports.UsageRepository
	signupGrant int
	logger      *logrus.Logger
}

func NewCreditService(ledger ports.CreditLedger, usageRepo ports.UsageRepository, signupGrant int, logger *logrus.Logger) ports.CreditService {
	if signupGrant < 0 {
		signupGrant = 0
	}
	return &CreditService{ledger: ledger, usageRepo: usageRepo, signupGrant: signupGrant, logger: logger}
}

func (s *CreditService) ProvisionAccount(ctx context.Context, userID uuid.UUID) error {
	return s.ledger.CreateAccount(ctx, userID, s.signupGrant)
}

func (s *CreditService) Balance(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	return s.ledger.Get(ctx, userID)
}

func (s *CreditService) Debit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	remaining, err := s.ledger.Debit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "amount": amount, "remaining": remaining}).Debug("credits debited")
	}
	return remaining, nil
}

func (s *CreditService) Grant(ctx context.Context, userID uuid.UUID, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", amount)
	}
	if err := s.ledger.Grant(ctx, userID, amount); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).Info("credits granted")
	}
	return nil
}

func (s *CreditService) RecordUsage(ctx context.Context, userID uuid.UUID, op credit.Operation, cost int) error {
	entry := &credit.UsageEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Operation: op,
		Cost:      cost,
		CreatedAt: time.Now(),
	}
	if err := s.usageRepo.Append(ctx, entry); err != nil {
		// Usage logging is best-effort reporting; the debit already happened.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "operation": op}).WithError(err).Warn("failed to append usage entry")
		}
		return err
	}
	return nil
}

func (s *CreditService) ListUsage(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.usageRepo.ListByUser(ctx, userID, limit, offset)
}
