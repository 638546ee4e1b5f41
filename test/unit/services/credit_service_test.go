package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/archstack/fieldreport/internal/application/services"
	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/test/mocks"
)

func newCreditService(t *testing.T, signupGrant int) (*mocks.CreditLedgerMock, *mocks.UsageRepositoryMock, uuid.UUID, ports.CreditService) {
	t.Helper()
	ledger := mocks.NewCreditLedgerMock()
	usage := &mocks.UsageRepositoryMock{}
	svc := services.NewCreditService(ledger, usage, signupGrant, logrus.New())
	userID := uuid.New()
	require.NoError(t, svc.ProvisionAccount(context.Background(), userID))
	return ledger, usage, userID, svc
}

func TestCreditService_DebitReducesBalance(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 10)

	remaining, err := svc.Debit(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Equal(t, 8, remaining)

	account, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 8, account.Available())
	require.Equal(t, 2, account.CreditsUsed)
}

func TestCreditService_DebitInsufficientLeavesBalanceUntouched(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 1)

	_, err := svc.Debit(context.Background(), userID, 2)
	require.Error(t, err)

	var insufficient *credit.InsufficientCreditsError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, 1, insufficient.Available)
	require.Equal(t, 2, insufficient.Required)

	account, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 1, account.Available())
}

func TestCreditService_DebitUnknownAccount(t *testing.T) {
	_, _, _, svc := newCreditService(t, 10)

	_, err := svc.Debit(context.Background(), uuid.New(), 1)
	require.ErrorIs(t, err, credit.ErrAccountNotFound)
}

func TestCreditService_DebitRejectsNonPositiveAmount(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 10)

	_, err := svc.Debit(context.Background(), userID, 0)
	require.Error(t, err)
	_, err = svc.Debit(context.Background(), userID, -3)
	require.Error(t, err)

	account, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 10, account.Available())
}

// Concurrent debits against a balance that only covers some of them must
// admit exactly as many as the balance allows and never over-spend.
func TestCreditService_ConcurrentDebitsNeverOverspend(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 5)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Debit(context.Background(), userID, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, successes)

	account, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 0, account.Available())
	require.Equal(t, 5, account.CreditsUsed)
}

// Two identical debits are two charges. There is no idempotence on repeat
// requests for the same operation.
func TestCreditService_RepeatedDebitsChargeEachTime(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 10)

	remaining, err := svc.Debit(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Equal(t, 8, remaining)

	remaining, err = svc.Debit(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Equal(t, 6, remaining)
}

func TestCreditService_GrantRaisesTotal(t *testing.T) {
	_, _, userID, svc := newCreditService(t, 2)

	_, err := svc.Debit(context.Background(), userID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Grant(context.Background(), userID, 5))

	account, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 5, account.Available())
	require.Equal(t, 7, account.CreditsTotal)
}

func TestCreditService_GrantUnknownAccount(t *testing.T) {
	_, _, _, svc := newCreditService(t, 10)
	require.ErrorIs(t, svc.Grant(context.Background(), uuid.New(), 5), credit.ErrAccountNotFound)
}

func TestCreditService_RecordAndListUsage(t *testing.T) {
	_, usage, userID, svc := newCreditService(t, 10)

	require.NoError(t, svc.RecordUsage(context.Background(), userID, credit.OpReportGeneration, 2))
	require.NoError(t, svc.RecordUsage(context.Background(), userID, credit.OpTranscription, 1))
	require.Len(t, usage.Entries, 2)

	entries, err := svc.ListUsage(context.Background(), userID, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, credit.OpReportGeneration, entries[0].Operation)
}
