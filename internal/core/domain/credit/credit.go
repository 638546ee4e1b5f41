package credit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Account is a user's consumption quota record. CreditsUsed only ever
// grows through debits; tops-ups raise CreditsTotal.
type Account struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	CreditsTotal int       `json:"credits_total" db:"credits_total"`
	CreditsUsed  int       `json:"credits_used" db:"credits_used"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Available returns the spendable balance, never negative.
func (a *Account) Available() int {
	if a.CreditsTotal <= a.CreditsUsed {
		return 0
	}
	return a.CreditsTotal - a.CreditsUsed
}

// ErrAccountNotFound indicates no quota record exists for the user. An
// account is provisioned at signup, so absence is a data inconsistency and
// is denied rather than treated as a default quota.
var ErrAccountNotFound = errors.New("credit account not found")

// InsufficientCreditsError reports the exact shortfall so the caller can
// render a precise message.
type InsufficientCreditsError struct {
	Available int
	Required  int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d available, %d required", e.Available, e.Required)
}

// Operation identifies a metered AI operation for costing and usage logging.
type Operation string

const (
	OpTranscription      Operation = "transcription"
	OpReportGeneration   Operation = "report_generation"
	OpReportRefine       Operation = "report_refine"
	OpTemplateGeneration Operation = "template_generation"
)

// UsageEntry records one successfully charged operation.
type UsageEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Operation Operation `json:"operation" db:"operation"`
	Cost      int       `json:"cost" db:"cost"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// GrantRequest represents an admin top-up of a user's quota
type GrantRequest struct {
	Amount int `json:"amount"`
}
