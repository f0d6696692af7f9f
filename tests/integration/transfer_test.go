package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
	"github.com/fintrackhq/fintrack/tests/testutil"
)

func TestTransferMovesMoneyAtomically(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "transfers@example.com")

	from := env.CreateTestBankAccount(ctx, t, user.ID, "Checking", decimal.RequireFromString("10000.00"))
	to := env.CreateTestBankAccount(ctx, t, user.ID, "Savings", decimal.Zero)

	result, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		UserID:     user.ID,
		From:       domain.AccountRef{Kind: domain.AccountKindBank, ID: from.Account.ID},
		To:         domain.AccountRef{Kind: domain.AccountKindBank, ID: to.Account.ID},
		Amount:     decimal.RequireFromString("2500.00"),
		OccurredAt: time.Now().UTC(),
		Memo:       "monthly savings",
	})
	if err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	if !result.FromBalance.Equal(decimal.RequireFromString("7500.00")) {
		t.Fatalf("expected from balance 7500.00, got %s", result.FromBalance)
	}
	if !result.ToBalance.Equal(decimal.RequireFromString("2500.00")) {
		t.Fatalf("expected to balance 2500.00, got %s", result.ToBalance)
	}

	// The journal entry behind the transfer must net to zero.
	var sum decimal.Decimal
	row := testDB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM postings p
		JOIN transfers tr ON tr.journal_entry_id = p.journal_entry_id
		WHERE tr.id = $1`, result.Transfer.ID)
	if err := row.Scan(&sum); err != nil {
		t.Fatalf("failed to sum postings: %v", err)
	}
	if !sum.IsZero() {
		t.Fatalf("expected postings to sum to zero, got %s", sum)
	}
}

func TestTransferRejectsSameAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "sameaccount@example.com")
	acct := env.CreateTestBankAccount(ctx, t, user.ID, "Only One", decimal.RequireFromString("100.00"))

	_, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		UserID:     user.ID,
		From:       domain.AccountRef{Kind: domain.AccountKindBank, ID: acct.Account.ID},
		To:         domain.AccountRef{Kind: domain.AccountKindBank, ID: acct.Account.ID},
		Amount:     decimal.RequireFromString("10.00"),
		OccurredAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}

func TestTransferDeleteRestoresBalances(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "xferdelete@example.com")

	from := env.CreateTestBankAccount(ctx, t, user.ID, "Checking", decimal.RequireFromString("1000.00"))
	to := env.CreateTestBankAccount(ctx, t, user.ID, "Savings", decimal.Zero)

	result, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		UserID:     user.ID,
		From:       domain.AccountRef{Kind: domain.AccountKindBank, ID: from.Account.ID},
		To:         domain.AccountRef{Kind: domain.AccountKindBank, ID: to.Account.ID},
		Amount:     decimal.RequireFromString("400.00"),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	if err := env.XferUC.DeleteTransfer(ctx, user.ID, result.Transfer.ID); err != nil {
		t.Fatalf("failed to delete transfer: %v", err)
	}

	fromView, err := env.AccountUC.GetBankAccount(ctx, user.ID, from.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload from account: %v", err)
	}
	if !fromView.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected from balance restored to 1000.00, got %s", fromView.Balance)
	}

	toView, err := env.AccountUC.GetBankAccount(ctx, user.ID, to.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload to account: %v", err)
	}
	if !toView.Balance.IsZero() {
		t.Fatalf("expected to balance restored to zero, got %s", toView.Balance)
	}

	// The record survives as soft-deleted and is gone from listings.
	if _, err := env.XferUC.GetTransfer(ctx, user.ID, result.Transfer.ID); !errors.Is(err, domain.ErrTransferNotFound) {
		t.Fatalf("expected deleted transfer to read as not found, got %v", err)
	}

	list, err := env.XferUC.ListTransfers(ctx, usecase.ListTransfersInput{UserID: user.ID, Limit: 10})
	if err != nil {
		t.Fatalf("failed to list transfers: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no visible transfers, got %d", len(list))
	}
}

func TestTransferUpdateRebooksEntry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	env := testutil.NewEnv(t, testDB)
	user := env.CreateTestUser(ctx, t, "xferedit@example.com")

	from := env.CreateTestBankAccount(ctx, t, user.ID, "Checking", decimal.RequireFromString("1000.00"))
	to := env.CreateTestBankAccount(ctx, t, user.ID, "Savings", decimal.Zero)
	third := env.CreateTestBankAccount(ctx, t, user.ID, "Emergency", decimal.Zero)

	created, err := env.XferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		UserID:     user.ID,
		From:       domain.AccountRef{Kind: domain.AccountKindBank, ID: from.Account.ID},
		To:         domain.AccountRef{Kind: domain.AccountKindBank, ID: to.Account.ID},
		Amount:     decimal.RequireFromString("300.00"),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	// Redirect the transfer to a different destination with a new amount.
	updated, err := env.XferUC.UpdateTransfer(ctx, usecase.UpdateTransferInput{
		ID:         created.Transfer.ID,
		UserID:     user.ID,
		From:       domain.AccountRef{Kind: domain.AccountKindBank, ID: from.Account.ID},
		To:         domain.AccountRef{Kind: domain.AccountKindBank, ID: third.Account.ID},
		Amount:     decimal.RequireFromString("500.00"),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to update transfer: %v", err)
	}

	if !updated.FromBalance.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("expected from balance 500.00 after rebooking, got %s", updated.FromBalance)
	}
	if !updated.ToBalance.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("expected new destination balance 500.00, got %s", updated.ToBalance)
	}

	// The original destination must be back to zero.
	toView, err := env.AccountUC.GetBankAccount(ctx, user.ID, to.Account.ID)
	if err != nil {
		t.Fatalf("failed to reload old destination: %v", err)
	}
	if !toView.Balance.IsZero() {
		t.Fatalf("expected old destination back at zero, got %s", toView.Balance)
	}
}
