package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// TransactionUseCase handles the user-facing income/expense records.
// Ledger writes go through LedgerUseCase; edits and deletes use the
// reverse-then-recreate pattern so posted amounts are never mutated.
type TransactionUseCase struct {
	txManager    TransactionManager
	txnRepo      TransactionRepository
	categoryRepo CategoryRepository
	ledger       *LedgerUseCase
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	txnRepo TransactionRepository,
	categoryRepo CategoryRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:    txManager,
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
		ledger:       ledger,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient storage errors (deadlocks,
// serialization failures).
func (uc *TransactionUseCase) WithRetrier(retrier Retrier) *TransactionUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables instrumentation.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

func (uc *TransactionUseCase) run(ctx context.Context, operation func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, operation)
	}
	return operation()
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	UserID     int64
	Kind       domain.TransactionKind
	Account    domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Method     string
	Purpose    string
	CategoryID *int64
}

// UpdateTransactionInput represents input for editing a transaction.
type UpdateTransactionInput struct {
	ID         string
	UserID     int64
	Kind       domain.TransactionKind
	Account    domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Method     string
	Purpose    string
	CategoryID *int64
}

// TransactionResult carries the stored record and the account balance
// after the ledger write.
type TransactionResult struct {
	Transaction *domain.Transaction
	Balance     decimal.Decimal
}

// CreateTransaction records a transaction and its journal entry in one
// atomic unit.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionResult, error) {
	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		OccurredAt: input.OccurredAt,
		Kind:       input.Kind,
		Amount:     input.Amount,
		Account:    input.Account,
		Method:     input.Method,
		Purpose:    input.Purpose,
		CategoryID: input.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.checkCategory(ctx, input.UserID, input.CategoryID, input.Kind); err != nil {
		return nil, err
	}

	var result *TransactionResult
	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entryResult, err := uc.ledger.CreateSimpleEntryTx(ctx, tx, SimpleEntryInput{
			UserID:     input.UserID,
			Kind:       input.Kind,
			Account:    input.Account,
			Amount:     input.Amount,
			OccurredAt: input.OccurredAt,
			Memo:       input.Purpose,
		})
		if err != nil {
			return err
		}

		txn.JournalEntryID = &entryResult.Entry.ID
		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransactionResult{Transaction: txn, Balance: entryResult.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(input.Kind)).Inc()
	}

	return result, nil
}

// UpdateTransaction edits a transaction by reversing the old journal
// entry and recording a fresh one with the new values, atomically.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*TransactionResult, error) {
	existing, err := uc.txnRepo.GetForUser(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if existing.IsDeleted() {
		return nil, domain.ErrTransactionNotFound
	}

	updated := &domain.Transaction{
		ID:         existing.ID,
		UserID:     existing.UserID,
		OccurredAt: input.OccurredAt,
		Kind:       input.Kind,
		Amount:     input.Amount,
		Account:    input.Account,
		Method:     input.Method,
		Purpose:    input.Purpose,
		CategoryID: input.CategoryID,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := uc.checkCategory(ctx, input.UserID, input.CategoryID, input.Kind); err != nil {
		return nil, err
	}

	var result *TransactionResult
	err = uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if existing.JournalEntryID != nil {
			entryID := *existing.JournalEntryID
			if err := uc.txnRepo.ClearJournalEntry(ctx, tx, existing.ID); err != nil {
				return err
			}
			if err := uc.ledger.ReverseEntryTx(ctx, tx, existing.UserID, entryID); err != nil {
				return err
			}
		}

		entryResult, err := uc.ledger.CreateSimpleEntryTx(ctx, tx, SimpleEntryInput{
			UserID:     input.UserID,
			Kind:       input.Kind,
			Account:    input.Account,
			Amount:     input.Amount,
			OccurredAt: input.OccurredAt,
			Memo:       input.Purpose,
		})
		if err != nil {
			return err
		}

		updated.JournalEntryID = &entryResult.Entry.ID
		if err := uc.txnRepo.Update(ctx, tx, updated); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransactionResult{Transaction: updated, Balance: entryResult.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTransaction soft-deletes a transaction, reversing its ledger
// effect and dropping the journal entry.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, userID int64, id string) error {
	existing, err := uc.txnRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if existing.IsDeleted() {
		return domain.ErrTransactionNotFound
	}

	err = uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if existing.JournalEntryID != nil {
			entryID := *existing.JournalEntryID
			if err := uc.txnRepo.ClearJournalEntry(ctx, tx, existing.ID); err != nil {
				return err
			}
			if err := uc.ledger.ReverseEntryTx(ctx, tx, existing.UserID, entryID); err != nil {
				return err
			}
		}

		if err := uc.txnRepo.SoftDelete(ctx, tx, id, time.Now().UTC()); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.RecordsDeleted.WithLabelValues("transaction").Inc()
	}

	return nil
}

// GetTransaction retrieves one transaction.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if txn.IsDeleted() {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	UserID int64
	Limit  int
	Offset int
}

// ListTransactions lists a user's live transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txnRepo.ListByUser(ctx, input.UserID, limit, offset)
}

func (uc *TransactionUseCase) checkCategory(ctx context.Context, userID int64, categoryID *int64, kind domain.TransactionKind) error {
	if categoryID == nil {
		return nil
	}

	category, err := uc.categoryRepo.GetForUser(ctx, userID, *categoryID)
	if err != nil {
		return err
	}

	if !category.Matches(kind) {
		return domain.ErrCategoryKindMismatch
	}

	return nil
}
