package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// TransferUseCase handles the user-facing transfer records between two
// accounts. Like transactions, edits reverse the old journal entry and
// record a fresh one in the same database transaction.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	ledger       *LedgerUseCase
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	transferRepo TransferRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		transferRepo: transferRepo,
		ledger:       ledger,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient storage errors.
func (uc *TransferUseCase) WithRetrier(retrier Retrier) *TransferUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables instrumentation.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

func (uc *TransferUseCase) run(ctx context.Context, operation func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, operation)
	}
	return operation()
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	UserID     int64
	From       domain.AccountRef
	To         domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Method     string
	Memo       string
}

// UpdateTransferInput represents input for editing a transfer.
type UpdateTransferInput struct {
	ID         string
	UserID     int64
	From       domain.AccountRef
	To         domain.AccountRef
	Amount     decimal.Decimal
	OccurredAt time.Time
	Method     string
	Memo       string
}

// TransferResult carries the stored record and both balances after the
// ledger write.
type TransferResult struct {
	Transfer    *domain.Transfer
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// CreateTransfer records a transfer and its journal entry atomically.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*TransferResult, error) {
	now := time.Now().UTC()

	transfer := &domain.Transfer{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		OccurredAt: input.OccurredAt,
		Amount:     input.Amount,
		From:       input.From,
		To:         input.To,
		Method:     input.Method,
		Memo:       input.Memo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	var result *TransferResult
	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entryResult, err := uc.ledger.CreateTransferEntryTx(ctx, tx, TransferEntryInput{
			UserID:     input.UserID,
			From:       input.From,
			To:         input.To,
			Amount:     input.Amount,
			OccurredAt: input.OccurredAt,
			Memo:       input.Memo,
		})
		if err != nil {
			return err
		}

		transfer.JournalEntryID = &entryResult.Entry.ID
		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			Transfer:    transfer,
			FromBalance: entryResult.FromBalance,
			ToBalance:   entryResult.ToBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	return result, nil
}

// UpdateTransfer edits a transfer via reverse-then-recreate.
func (uc *TransferUseCase) UpdateTransfer(ctx context.Context, input UpdateTransferInput) (*TransferResult, error) {
	existing, err := uc.transferRepo.GetForUser(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if existing.IsDeleted() {
		return nil, domain.ErrTransferNotFound
	}

	updated := &domain.Transfer{
		ID:         existing.ID,
		UserID:     existing.UserID,
		OccurredAt: input.OccurredAt,
		Amount:     input.Amount,
		From:       input.From,
		To:         input.To,
		Method:     input.Method,
		Memo:       input.Memo,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	var result *TransferResult
	err = uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if existing.JournalEntryID != nil {
			entryID := *existing.JournalEntryID
			if err := uc.transferRepo.ClearJournalEntry(ctx, tx, existing.ID); err != nil {
				return err
			}
			if err := uc.ledger.ReverseEntryTx(ctx, tx, existing.UserID, entryID); err != nil {
				return err
			}
		}

		entryResult, err := uc.ledger.CreateTransferEntryTx(ctx, tx, TransferEntryInput{
			UserID:     input.UserID,
			From:       input.From,
			To:         input.To,
			Amount:     input.Amount,
			OccurredAt: input.OccurredAt,
			Memo:       input.Memo,
		})
		if err != nil {
			return err
		}

		updated.JournalEntryID = &entryResult.Entry.ID
		if err := uc.transferRepo.Update(ctx, tx, updated); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			Transfer:    updated,
			FromBalance: entryResult.FromBalance,
			ToBalance:   entryResult.ToBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTransfer soft-deletes a transfer, reversing its ledger effect.
func (uc *TransferUseCase) DeleteTransfer(ctx context.Context, userID int64, id string) error {
	existing, err := uc.transferRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if existing.IsDeleted() {
		return domain.ErrTransferNotFound
	}

	err = uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if existing.JournalEntryID != nil {
			entryID := *existing.JournalEntryID
			if err := uc.transferRepo.ClearJournalEntry(ctx, tx, existing.ID); err != nil {
				return err
			}
			if err := uc.ledger.ReverseEntryTx(ctx, tx, existing.UserID, entryID); err != nil {
				return err
			}
		}

		if err := uc.transferRepo.SoftDelete(ctx, tx, id, time.Now().UTC()); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.RecordsDeleted.WithLabelValues("transfer").Inc()
	}

	return nil
}

// GetTransfer retrieves one transfer.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, userID int64, id string) (*domain.Transfer, error) {
	transfer, err := uc.transferRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if transfer.IsDeleted() {
		return nil, domain.ErrTransferNotFound
	}

	return transfer, nil
}

// ListTransfersInput represents input for listing transfers.
type ListTransfersInput struct {
	UserID int64
	Limit  int
	Offset int
}

// ListTransfers lists a user's live transfers, newest first.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, input ListTransfersInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transferRepo.ListByUser(ctx, input.UserID, limit, offset)
}
