package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, occurred_at, kind, amount, account_kind, account_id,
	method, purpose, category_id, journal_entry_id, created_at, updated_at, deleted_at`

// Create inserts a transaction inside the given database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, occurred_at, kind, amount, account_kind, account_id,
			method, purpose, category_id, journal_entry_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		txn.ID,
		txn.UserID,
		timeToPgTimestamptz(txn.OccurredAt),
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		string(txn.Account.Kind),
		txn.Account.ID,
		txn.Method,
		txn.Purpose,
		int64PtrToPgInt8(txn.CategoryID),
		int64PtrToPgInt8(txn.JournalEntryID),
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetForUser retrieves one transaction owned by the given user,
// including soft-deleted rows; callers filter on IsDeleted.
func (r *TransactionRepository) GetForUser(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2`, id, userID)

	return scanTransaction(row)
}

// ListByUser lists a user's live transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// Update persists an edited transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET occurred_at = $2, kind = $3, amount = $4, account_kind = $5, account_id = $6,
			method = $7, purpose = $8, category_id = $9, journal_entry_id = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`,
		txn.ID,
		timeToPgTimestamptz(txn.OccurredAt),
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		string(txn.Account.Kind),
		txn.Account.ID,
		txn.Method,
		txn.Purpose,
		int64PtrToPgInt8(txn.CategoryID),
		int64PtrToPgInt8(txn.JournalEntryID),
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ClearJournalEntry detaches a transaction from its journal entry.
// journal_entry_id carries a plain foreign key, so the row must be
// detached before the entry itself can be deleted in the same
// database transaction.
func (r *TransactionRepository) ClearJournalEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET journal_entry_id = NULL
		WHERE id = $1`,
		id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// SoftDelete marks a transaction deleted and detaches its journal
// entry; the caller has already reversed and removed the entry itself.
func (r *TransactionRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET deleted_at = $2, journal_entry_id = NULL, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id, timeToPgTimestamptz(deletedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn          domain.Transaction
		occurredAt   pgtype.Timestamptz
		kind         string
		amount       pgtype.Numeric
		accountKind  string
		categoryID   pgtype.Int8
		journalEntry pgtype.Int8
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		deletedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&occurredAt,
		&kind,
		&amount,
		&accountKind,
		&txn.Account.ID,
		&txn.Method,
		&txn.Purpose,
		&categoryID,
		&journalEntry,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.OccurredAt = occurredAt.Time
	txn.Kind = domain.TransactionKind(kind)
	txn.Amount = numericToDecimal(amount)
	txn.Account.Kind = domain.AccountKind(accountKind)
	txn.CategoryID = pgInt8ToInt64Ptr(categoryID)
	txn.JournalEntryID = pgInt8ToInt64Ptr(journalEntry)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time
	txn.DeletedAt = pgTimestamptzToTimePtr(deletedAt)

	return &txn, nil
}
