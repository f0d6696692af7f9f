package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// LedgerUseCase is the double-entry core. Every money movement goes
// through it: it creates journal entries with their postings, maintains
// the materialized balances under row locks, and enforces the zero-sum
// invariant before anything commits.
type LedgerUseCase struct {
	txManager   TransactionManager
	journalRepo JournalRepository
	balanceRepo BalanceRepository
	bankRepo    BankAccountRepository
	cardRepo    CreditCardRepository
	controls    *domain.ControlAccounts
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. The control-account
// handle is resolved once at startup and passed in here.
func NewLedgerUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	balanceRepo BalanceRepository,
	bankRepo BankAccountRepository,
	cardRepo CreditCardRepository,
	controls *domain.ControlAccounts,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		journalRepo: journalRepo,
		balanceRepo: balanceRepo,
		bankRepo:    bankRepo,
		cardRepo:    cardRepo,
		controls:    controls,
	}
}

// WithMetrics enables ledger instrumentation.
func (uc *LedgerUseCase) WithMetrics(m *metrics.Metrics) *LedgerUseCase {
	uc.metrics = m
	return uc
}

// Controls exposes the control-account handle to collaborating services.
func (uc *LedgerUseCase) Controls() *domain.ControlAccounts {
	return uc.controls
}

// SimpleEntryInput represents input for recording an income or expense.
type SimpleEntryInput struct {
	UserID     int64
	Kind       domain.TransactionKind
	Account    domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Memo       string
}

// TransferEntryInput represents input for recording a transfer between
// two user accounts.
type TransferEntryInput struct {
	UserID     int64
	From       domain.AccountRef
	To         domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Memo       string
}

// EntryResult carries the created entry and the updated account balance.
type EntryResult struct {
	Entry   *domain.JournalEntry
	Balance decimal.Decimal
}

// TransferEntryResult carries the created entry and both updated balances.
type TransferEntryResult struct {
	Entry       *domain.JournalEntry
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// CreateSimpleEntry records an income or expense in its own transaction.
func (uc *LedgerUseCase) CreateSimpleEntry(ctx context.Context, input SimpleEntryInput) (*EntryResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := uc.CreateSimpleEntryTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateSimpleEntryTx records an income or expense inside an existing
// transaction: one posting against the user account, one against the
// matching control account, balanced to zero.
func (uc *LedgerUseCase) CreateSimpleEntryTx(ctx context.Context, tx Transaction, input SimpleEntryInput) (*EntryResult, error) {
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.resolveAccount(ctx, input.UserID, input.Account)
	if err != nil {
		return nil, err
	}

	control := uc.controls.ForKind(input.Kind)
	if control == nil {
		return nil, domain.ErrControlMissing
	}

	now := time.Now().UTC()

	// Lock the balance before any posting exists so a concurrent entry
	// against the same account serializes here.
	balance, err := uc.balanceRepo.GetForUpdateOrCreate(ctx, tx, account.Ref(), account.Opening())
	if err != nil {
		return nil, err
	}

	entry := &domain.JournalEntry{
		UserID:     input.UserID,
		OccurredAt: input.OccurredAt,
		Memo:       input.Memo,
		CreatedAt:  now,
	}

	if err := uc.journalRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	// Income debits the user account; expense credits it. The control
	// account takes the opposite leg.
	userType := domain.PostingTypeDebit
	controlType := domain.PostingTypeCredit
	if input.Kind == domain.TransactionKindExpense {
		userType = domain.PostingTypeCredit
		controlType = domain.PostingTypeDebit
	}

	userPosting := domain.NewPosting(entry.ID, account.Ref(), input.Amount, userType, input.Memo, now)
	if err := uc.journalRepo.CreatePosting(ctx, tx, userPosting); err != nil {
		return nil, err
	}

	controlPosting := domain.NewPosting(entry.ID, control.Ref(), input.Amount, controlType, input.Memo, now)
	if err := uc.journalRepo.CreatePosting(ctx, tx, controlPosting); err != nil {
		return nil, err
	}

	balance.Apply(userPosting.Amount, userPosting.ID, now)
	if err := uc.balanceRepo.Save(ctx, tx, balance); err != nil {
		return nil, err
	}

	if err := uc.assertBalanced(ctx, tx, entry.ID); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	return &EntryResult{Entry: entry, Balance: balance.BalanceAmount}, nil
}

// CreateTransferEntry records a transfer in its own transaction.
func (uc *LedgerUseCase) CreateTransferEntry(ctx context.Context, input TransferEntryInput) (*TransferEntryResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := uc.CreateTransferEntryTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateTransferEntryTx records a transfer inside an existing
// transaction: a credit against the source account and a debit against
// the destination, summing to zero.
func (uc *LedgerUseCase) CreateTransferEntryTx(ctx context.Context, tx Transaction, input TransferEntryInput) (*TransferEntryResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.From.Equal(input.To) {
		return nil, domain.ErrSameAccount
	}

	fromAccount, err := uc.resolveAccount(ctx, input.UserID, input.From)
	if err != nil {
		return nil, err
	}

	toAccount, err := uc.resolveAccount(ctx, input.UserID, input.To)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Lock both balances in a stable order (DEADLOCK PREVENTION).
	ordered := []domain.BalanceAccount{fromAccount, toAccount}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Ref().Less(ordered[j].Ref())
	})

	balances := make(map[domain.AccountRef]*domain.AccountBalance, 2)
	for _, acct := range ordered {
		balance, err := uc.balanceRepo.GetForUpdateOrCreate(ctx, tx, acct.Ref(), acct.Opening())
		if err != nil {
			return nil, err
		}

		balances[acct.Ref()] = balance
	}

	entry := &domain.JournalEntry{
		UserID:     input.UserID,
		OccurredAt: input.OccurredAt,
		Memo:       input.Memo,
		CreatedAt:  now,
	}

	if err := uc.journalRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	fromPosting := domain.NewPosting(entry.ID, input.From, input.Amount, domain.PostingTypeCredit, input.Memo, now)
	if err := uc.journalRepo.CreatePosting(ctx, tx, fromPosting); err != nil {
		return nil, err
	}

	toPosting := domain.NewPosting(entry.ID, input.To, input.Amount, domain.PostingTypeDebit, input.Memo, now)
	if err := uc.journalRepo.CreatePosting(ctx, tx, toPosting); err != nil {
		return nil, err
	}

	fromBalance := balances[input.From]
	fromBalance.Apply(fromPosting.Amount, fromPosting.ID, now)
	if err := uc.balanceRepo.Save(ctx, tx, fromBalance); err != nil {
		return nil, err
	}

	toBalance := balances[input.To]
	toBalance.Apply(toPosting.Amount, toPosting.ID, now)
	if err := uc.balanceRepo.Save(ctx, tx, toBalance); err != nil {
		return nil, err
	}

	if err := uc.assertBalanced(ctx, tx, entry.ID); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	return &TransferEntryResult{
		Entry:       entry,
		FromBalance: fromBalance.BalanceAmount,
		ToBalance:   toBalance.BalanceAmount,
	}, nil
}

// UpdateBalance applies a signed delta to one account's materialized
// balance under a row lock. It must run inside an existing transaction;
// reversal flows call it with a negated posting amount.
func (uc *LedgerUseCase) UpdateBalance(ctx context.Context, tx Transaction, account domain.BalanceAccount, delta decimal.Decimal, postingID int64) (decimal.Decimal, error) {
	ref := account.Ref()
	if ref.Kind != domain.AccountKindBank && ref.Kind != domain.AccountKindCreditCard {
		return decimal.Zero, domain.ErrBalanceNotSupported
	}

	balance, err := uc.balanceRepo.GetForUpdateOrCreate(ctx, tx, ref, account.Opening())
	if err != nil {
		return decimal.Zero, err
	}

	balance.Apply(delta, postingID, time.Now().UTC())
	if err := uc.balanceRepo.Save(ctx, tx, balance); err != nil {
		return decimal.Zero, err
	}

	return balance.BalanceAmount, nil
}

// ReverseEntryTx undoes a journal entry's effect on user-account
// balances and deletes the entry with its postings. Edit flows call
// this before recreating the entry with new values; postings are never
// mutated in place.
func (uc *LedgerUseCase) ReverseEntryTx(ctx context.Context, tx Transaction, userID, entryID int64) error {
	postings, err := uc.journalRepo.ListEntryPostings(ctx, entryID)
	if err != nil {
		return err
	}

	// Control postings carry no materialized balance; only the user
	// account legs need reversing.
	for _, posting := range postings {
		if posting.Account.Kind == domain.AccountKindControl {
			continue
		}

		account, err := uc.resolveAccountAny(ctx, userID, posting.Account)
		if err != nil {
			return err
		}

		if _, err := uc.UpdateBalance(ctx, tx, account, posting.Amount.Neg(), posting.ID); err != nil {
			return err
		}
	}

	if err := uc.journalRepo.DeleteEntry(ctx, tx, entryID); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
	}

	return nil
}

// GetBalance returns the current materialized balance for an account,
// falling back to the opening balance when no posting has touched it yet.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, account domain.BalanceAccount) (decimal.Decimal, error) {
	balance, err := uc.balanceRepo.Get(ctx, account.Ref())
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return account.Opening(), nil
		}

		return decimal.Zero, err
	}

	return balance.BalanceAmount, nil
}

// resolveAccount loads an active user account behind a ref. Control
// refs are rejected: they never participate as a user leg.
func (uc *LedgerUseCase) resolveAccount(ctx context.Context, userID int64, ref domain.AccountRef) (domain.BalanceAccount, error) {
	account, err := uc.resolveAccountAny(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	switch a := account.(type) {
	case *domain.BankAccount:
		if a.Status == domain.AccountStatusArchived {
			return nil, domain.ErrAccountArchived
		}
	case *domain.CreditCard:
		if a.Status == domain.AccountStatusArchived {
			return nil, domain.ErrAccountArchived
		}
	}

	return account, nil
}

// resolveAccountAny loads a user account without the archived check.
// Reversal must keep working after an account is archived.
func (uc *LedgerUseCase) resolveAccountAny(ctx context.Context, userID int64, ref domain.AccountRef) (domain.BalanceAccount, error) {
	switch ref.Kind {
	case domain.AccountKindBank:
		account, err := uc.bankRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}

		if account.UserID != userID {
			return nil, domain.ErrAccountNotFound
		}

		return account, nil
	case domain.AccountKindCreditCard:
		card, err := uc.cardRepo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}

		if card.UserID != userID {
			return nil, domain.ErrAccountNotFound
		}

		return card, nil
	default:
		return nil, domain.ErrBalanceNotSupported
	}
}

// assertBalanced verifies the zero-sum invariant inside the creating
// transaction. A non-zero sum here is a bug, not bad input; returning
// the error rolls everything back.
func (uc *LedgerUseCase) assertBalanced(ctx context.Context, tx Transaction, entryID int64) error {
	sum, err := uc.journalRepo.SumEntryPostings(ctx, tx, entryID)
	if err != nil {
		return err
	}

	if !sum.IsZero() {
		if uc.metrics != nil {
			uc.metrics.EntryErrors.WithLabelValues("unbalanced").Inc()
		}
		return domain.ErrUnbalanced
	}

	return nil
}
