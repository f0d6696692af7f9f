package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountArchived     = errors.New("account is archived")
	ErrUnknownAccountKind  = errors.New("unknown account kind")
	ErrBalanceNotSupported = errors.New("account kind does not carry a materialized balance")
	ErrBalanceNotFound     = errors.New("balance record not found")

	// Ledger errors
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrSameAccount    = errors.New("cannot transfer to the same account")
	ErrPostingSign    = errors.New("posting amount sign does not match posting type")
	ErrEntryNotFound  = errors.New("journal entry not found")
	ErrUnbalanced     = errors.New("journal entry postings do not sum to zero")
	ErrControlMissing = errors.New("control accounts not bootstrapped")

	// Record errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransferNotFound       = errors.New("transfer not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryKindMismatch   = errors.New("category kind does not match transaction kind")
	ErrInvalidTransactionKind = errors.New("transaction kind must be income or expense")
	ErrUserNotFound           = errors.New("user not found")
)
