package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
)

// BankAccountRepository defines data access for bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.BankAccount) error
	GetByID(ctx context.Context, id int64) (*domain.BankAccount, error)
	GetForUser(ctx context.Context, userID, id int64) (*domain.BankAccount, error)
	ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.BankAccount, error)
	ListActive(ctx context.Context) ([]*domain.BankAccount, error)
	Update(ctx context.Context, account *domain.BankAccount) error
	UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error
}

// CreditCardRepository defines data access for credit cards.
type CreditCardRepository interface {
	Create(ctx context.Context, tx Transaction, card *domain.CreditCard) error
	GetByID(ctx context.Context, id int64) (*domain.CreditCard, error)
	GetForUser(ctx context.Context, userID, id int64) (*domain.CreditCard, error)
	ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.CreditCard, error)
	ListActive(ctx context.Context) ([]*domain.CreditCard, error)
	Update(ctx context.Context, card *domain.CreditCard) error
	UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error
}

// ControlAccountRepository defines data access for the two control accounts.
type ControlAccountRepository interface {
	// EnsureDefaults creates the income and expense control accounts if
	// absent and returns the handle. Idempotent.
	EnsureDefaults(ctx context.Context) (*domain.ControlAccounts, error)
}

// BalanceRepository defines data access for materialized balances.
type BalanceRepository interface {
	// Get reads the balance row outside any lock. Returns
	// domain.ErrBalanceNotFound when no row exists yet.
	Get(ctx context.Context, ref domain.AccountRef) (*domain.AccountBalance, error)
	// GetForUpdateOrCreate takes a row lock on the balance, inserting it
	// first with the given opening amount when absent. Must run inside tx.
	GetForUpdateOrCreate(ctx context.Context, tx Transaction, ref domain.AccountRef, opening decimal.Decimal) (*domain.AccountBalance, error)
	// Save persists balance_amount, last_posting_id and updated_at of a
	// row previously locked in the same transaction.
	Save(ctx context.Context, tx Transaction, balance *domain.AccountBalance) error
	// Put upserts a balance row wholesale. Used by recalculation.
	Put(ctx context.Context, tx Transaction, balance *domain.AccountBalance) error
}

// JournalRepository defines data access for journal entries and postings.
type JournalRepository interface {
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	CreatePosting(ctx context.Context, tx Transaction, posting *domain.Posting) error
	GetEntry(ctx context.Context, id int64) (*domain.JournalEntry, error)
	ListEntryPostings(ctx context.Context, entryID int64) ([]*domain.Posting, error)
	// SumEntryPostings computes the net amount of an entry's postings
	// inside the creating transaction. Zero for a balanced entry.
	SumEntryPostings(ctx context.Context, tx Transaction, entryID int64) (decimal.Decimal, error)
	// DeleteEntry removes an entry, cascading its postings.
	DeleteEntry(ctx context.Context, tx Transaction, id int64) error
	// DeleteOrphanEntries removes entries not referenced by any live or
	// soft-deleted transaction or transfer record.
	DeleteOrphanEntries(ctx context.Context, tx Transaction) (int64, error)
	// LivePostingTotals sums the postings against one account whose
	// journal entry is referenced by a non-deleted transaction or
	// transfer, and reports the id of the newest such posting.
	LivePostingTotals(ctx context.Context, tx Transaction, ref domain.AccountRef) (decimal.Decimal, *int64, error)
}

// TransactionRepository defines data access for user-facing transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetForUser(ctx context.Context, userID int64, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ClearJournalEntry(ctx context.Context, tx Transaction, id string) error
	SoftDelete(ctx context.Context, tx Transaction, id string, deletedAt time.Time) error
}

// TransferRepository defines data access for user-facing transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetForUser(ctx context.Context, userID int64, id string) (*domain.Transfer, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transfer, error)
	Update(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	ClearJournalEntry(ctx context.Context, tx Transaction, id string) error
	SoftDelete(ctx context.Context, tx Transaction, id string, deletedAt time.Time) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetForUser(ctx context.Context, userID, id int64) (*domain.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, userID, id int64) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Name  string
	Color string
	Total decimal.Decimal
}

// ReportingRepository defines the aggregate queries behind reports.
type ReportingRepository interface {
	// IncomeExpenseTotals sums live transactions in [start, end).
	IncomeExpenseTotals(ctx context.Context, userID int64, start, end time.Time) (income, expense decimal.Decimal, err error)
	// ExpenseByCategory groups live expenses since start by category.
	ExpenseByCategory(ctx context.Context, userID int64, start time.Time) ([]CategoryTotal, error)
	// BankOpeningTotal sums opening balances of bank accounts opened up
	// to the cutoff (inclusive).
	BankOpeningTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error)
	// BankPostingTotal sums postings against the user's bank accounts
	// whose journal entry occurred up to the cutoff (inclusive). This
	// replays history directly, bypassing the materialized balances.
	BankPostingTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs for user-facing records.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations for report payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
