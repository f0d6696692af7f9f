package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a user-facing transaction.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// IsValid checks if the kind is known.
func (k TransactionKind) IsValid() bool {
	return k == TransactionKindIncome || k == TransactionKindExpense
}

// Transaction is the user-facing income/expense record. Each live
// transaction links to exactly one journal entry; edits replace the entry
// rather than mutate it, deletes are soft.
type Transaction struct {
	ID             string
	UserID         int64
	OccurredAt     time.Time
	Kind           TransactionKind
	Amount         decimal.Decimal
	Account        AccountRef
	Method         string
	Purpose        string
	CategoryID     *int64
	JournalEntryID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Validate checks caller-supplied fields before any write.
func (t *Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidTransactionKind
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Account.Kind != AccountKindBank && t.Account.Kind != AccountKindCreditCard {
		return ErrBalanceNotSupported
	}

	return nil
}

// IsDeleted reports whether the transaction has been soft-deleted.
func (t *Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}
