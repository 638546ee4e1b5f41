package ports

import (
	"context"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/google/uuid"
)

// CreditLedger provides atomic operations on externally persisted credit
// accounts. Debit MUST be a single conditional write (no read-then-write):
// it succeeds only if the account's available balance covers amount, so
// concurrent debits for one user can never over-spend.
type CreditLedger interface {
	// CreateAccount provisions a new account with the given starting total.
	CreateAccount(ctx context.Context, userID uuid.UUID, creditsTotal int) error
	// Get returns the account or credit.ErrAccountNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*credit.Account, error)
	// Debit atomically consumes amount credits and returns the remaining
	// balance. Fails with credit.ErrAccountNotFound or
	// *credit.InsufficientCreditsError without mutating the account.
	Debit(ctx context.Context, userID uuid.UUID, amount int) (remaining int, err error)
	// Grant raises the account's credit total by amount.
	Grant(ctx context.Context, userID uuid.UUID, amount int) error
}

// UsageRepository stores the per-user log of charged operations
type UsageRepository interface {
	Append(ctx context.Context, entry *credit.UsageEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error)
}

// CreditService meters access to paid operations. Debit is the gate's
// third stage; a debit is never refunded when the operation it paid for
// subsequently fails.
type CreditService interface {
	ProvisionAccount(ctx context.Context, userID uuid.UUID) error
	Balance(ctx context.Context, userID uuid.UUID) (*credit.Account, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int) (remaining int, err error)
	Grant(ctx context.Context, userID uuid.UUID, amount int) error
	RecordUsage(ctx context.Context, userID uuid.UUID, op credit.Operation, cost int) error
	ListUsage(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error)
}
