package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// RecalculationUseCase rebuilds materialized balances from posting
// history. It is the authoritative reconciliation mechanism: for every
// active account, expected = opening_balance + sum of live posting
// amounts, where a posting is live only when its journal entry is still
// referenced by a non-deleted transaction or transfer.
type RecalculationUseCase struct {
	txManager   TransactionManager
	bankRepo    BankAccountRepository
	cardRepo    CreditCardRepository
	balanceRepo BalanceRepository
	journalRepo JournalRepository
	metrics     *metrics.Metrics
}

// NewRecalculationUseCase creates a new RecalculationUseCase.
func NewRecalculationUseCase(
	txManager TransactionManager,
	bankRepo BankAccountRepository,
	cardRepo CreditCardRepository,
	balanceRepo BalanceRepository,
	journalRepo JournalRepository,
) *RecalculationUseCase {
	return &RecalculationUseCase{
		txManager:   txManager,
		bankRepo:    bankRepo,
		cardRepo:    cardRepo,
		balanceRepo: balanceRepo,
		journalRepo: journalRepo,
	}
}

// WithMetrics enables repair instrumentation.
func (uc *RecalculationUseCase) WithMetrics(m *metrics.Metrics) *RecalculationUseCase {
	uc.metrics = m
	return uc
}

// RecalculateInput controls a recalculation run.
type RecalculateInput struct {
	// DryRun reports divergences without persisting anything.
	DryRun bool
	// CleanupOrphans deletes journal entries no transaction or transfer
	// references anymore.
	CleanupOrphans bool
}

// AccountResult is the per-account outcome of a recalculation run.
type AccountResult struct {
	Account    domain.AccountRef
	Name       string
	Current    decimal.Decimal
	Expected   decimal.Decimal
	Difference decimal.Decimal
	Fixed      bool
}

// RecalculateReport summarizes a recalculation run.
type RecalculateReport struct {
	Accounts       []AccountResult
	FixedCount     int
	OrphansDeleted int64
	DryRun         bool
	CheckedAt      time.Time
}

// Recalculate runs the repair job. The whole run executes in one
// transaction; in dry-run mode the transaction is rolled back instead
// of committed, so orphan deletion and balance writes leave no trace.
func (uc *RecalculationUseCase) Recalculate(ctx context.Context, input RecalculateInput) (*RecalculateReport, error) {
	banks, err := uc.bankRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	cards, err := uc.cardRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]recalcTarget, 0, len(banks)+len(cards))
	for _, a := range banks {
		accounts = append(accounts, recalcTarget{account: a, name: a.Name})
	}
	for _, c := range cards {
		accounts = append(accounts, recalcTarget{account: c, name: c.Name})
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	report := &RecalculateReport{
		DryRun:    input.DryRun,
		CheckedAt: time.Now().UTC(),
	}

	if input.CleanupOrphans {
		deleted, err := uc.journalRepo.DeleteOrphanEntries(ctx, tx)
		if err != nil {
			return nil, err
		}
		report.OrphansDeleted = deleted
	}

	for _, target := range accounts {
		result, err := uc.recalculateAccount(ctx, tx, target)
		if err != nil {
			return nil, fmt.Errorf("recalculate %s: %w", target.account.Ref(), err)
		}

		report.Accounts = append(report.Accounts, *result)
		if result.Fixed {
			report.FixedCount++
		}
	}

	if input.DryRun {
		// Roll back via the deferred call; divergences are reported as
		// fixed-if-committed.
		return report, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalancesFixed.Add(float64(report.FixedCount))
		uc.metrics.OrphansDeleted.Add(float64(report.OrphansDeleted))
	}

	return report, nil
}

type recalcTarget struct {
	account domain.BalanceAccount
	name    string
}

func (uc *RecalculationUseCase) recalculateAccount(ctx context.Context, tx Transaction, target recalcTarget) (*AccountResult, error) {
	ref := target.account.Ref()

	liveTotal, lastPostingID, err := uc.journalRepo.LivePostingTotals(ctx, tx, ref)
	if err != nil {
		return nil, err
	}

	expected := target.account.Opening().Add(liveTotal)

	current := target.account.Opening()
	stored, err := uc.balanceRepo.Get(ctx, ref)
	if err == nil {
		current = stored.BalanceAmount
	} else if !errors.Is(err, domain.ErrBalanceNotFound) {
		return nil, err
	}

	result := &AccountResult{
		Account:    ref,
		Name:       target.name,
		Current:    current,
		Expected:   expected,
		Difference: expected.Sub(current),
	}

	if result.Difference.IsZero() {
		return result, nil
	}

	err = uc.balanceRepo.Put(ctx, tx, &domain.AccountBalance{
		Account:       ref,
		BalanceAmount: expected,
		LastPostingID: lastPostingID,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	result.Fixed = true

	return result, nil
}
