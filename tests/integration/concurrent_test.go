package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
	"github.com/fintrackhq/fintrack/tests/testutil"
)

func TestConcurrentTransactionsKeepBalanceConsistent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "concurrent@example.com")
	acct := env.CreateTestBankAccount(ctx, t, user.ID, "Hot Account", decimal.RequireFromString("10000.00"))

	const workers = 20
	amount := decimal.RequireFromString("10.00")

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.TxnUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
				UserID:     user.ID,
				Kind:       domain.TransactionKindExpense,
				Account:    domain.AccountRef{Kind: domain.AccountKindBank, ID: acct.Account.ID},
				Amount:     amount,
				OccurredAt: time.Now().UTC(),
			})
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent transaction failed: %v", err)
	}

	view, err := env.AccountUC.GetBankAccount(ctx, user.ID, acct.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}

	expected := decimal.RequireFromString("9800.00")
	if !view.Balance.Equal(expected) {
		t.Fatalf("expected balance %s after %d debits, got %s", expected, workers, view.Balance)
	}

	// The materialized balance must agree with a replay of the postings.
	report, err := env.RecalcUC.Recalculate(ctx, usecase.RecalculateInput{DryRun: true})
	if err != nil {
		t.Fatalf("failed to verify balances: %v", err)
	}
	if report.FixedCount != 0 {
		t.Fatalf("expected no drifted balances, got %d", report.FixedCount)
	}
}

func TestConcurrentOpposingTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "opposing@example.com")

	a := env.CreateTestBankAccount(ctx, t, user.ID, "A", decimal.RequireFromString("1000.00"))
	b := env.CreateTestBankAccount(ctx, t, user.ID, "B", decimal.RequireFromString("1000.00"))

	refA := domain.AccountRef{Kind: domain.AccountKindBank, ID: a.Account.ID}
	refB := domain.AccountRef{Kind: domain.AccountKindBank, ID: b.Account.ID}
	amount := decimal.RequireFromString("25.00")

	// Transfers in both directions at once exercise the ordered
	// balance locking; none of them may deadlock permanently.
	const rounds = 10
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)

	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
				UserID: user.ID, From: refA, To: refB,
				Amount: amount, OccurredAt: time.Now().UTC(),
			})
			if err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			_, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
				UserID: user.ID, From: refB, To: refA,
				Amount: amount, OccurredAt: time.Now().UTC(),
			})
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent transfer failed: %v", err)
	}

	// Equal traffic both ways leaves both balances where they started.
	viewA, err := env.AccountUC.GetBankAccount(ctx, user.ID, a.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload account A: %v", err)
	}
	viewB, err := env.AccountUC.GetBankAccount(ctx, user.ID, b.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload account B: %v", err)
	}

	if !viewA.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected A back at 1000.00, got %s", viewA.Balance)
	}
	if !viewB.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected B back at 1000.00, got %s", viewB.Balance)
	}
}
