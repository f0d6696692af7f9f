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

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `id, user_id, occurred_at, amount, from_kind, from_id, to_kind, to_id,
	method, memo, journal_entry_id, created_at, updated_at, deleted_at`

// Create inserts a transfer inside the given database transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, tr *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transfers (id, user_id, occurred_at, amount, from_kind, from_id, to_kind, to_id,
			method, memo, journal_entry_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		tr.ID,
		tr.UserID,
		timeToPgTimestamptz(tr.OccurredAt),
		decimalToNumeric(tr.Amount),
		string(tr.From.Kind),
		tr.From.ID,
		string(tr.To.Kind),
		tr.To.ID,
		tr.Method,
		tr.Memo,
		int64PtrToPgInt8(tr.JournalEntryID),
		timeToPgTimestamptz(tr.CreatedAt),
		timeToPgTimestamptz(tr.UpdatedAt),
	)

	return err
}

// GetForUser retrieves one transfer owned by the given user, including
// soft-deleted rows; callers filter on IsDeleted.
func (r *TransferRepository) GetForUser(ctx context.Context, userID int64, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE id = $1 AND user_id = $2`, id, userID)

	return scanTransfer(row)
}

// ListByUser lists a user's live transfers, newest first.
func (r *TransferRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		tr, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, tr)
	}

	return transfers, rows.Err()
}

// Update persists an edited transfer.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, tr *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transfers
		SET occurred_at = $2, amount = $3, from_kind = $4, from_id = $5, to_kind = $6, to_id = $7,
			method = $8, memo = $9, journal_entry_id = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`,
		tr.ID,
		timeToPgTimestamptz(tr.OccurredAt),
		decimalToNumeric(tr.Amount),
		string(tr.From.Kind),
		tr.From.ID,
		string(tr.To.Kind),
		tr.To.ID,
		tr.Method,
		tr.Memo,
		int64PtrToPgInt8(tr.JournalEntryID),
		timeToPgTimestamptz(tr.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// ClearJournalEntry detaches a transfer from its journal entry so the
// entry can be deleted without tripping the journal_entry_id foreign
// key.
func (r *TransferRepository) ClearJournalEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transfers
		SET journal_entry_id = NULL
		WHERE id = $1`,
		id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// SoftDelete marks a transfer deleted and detaches its journal entry.
func (r *TransferRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transfers
		SET deleted_at = $2, journal_entry_id = NULL, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id, timeToPgTimestamptz(deletedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		tr           domain.Transfer
		occurredAt   pgtype.Timestamptz
		amount       pgtype.Numeric
		fromKind     string
		toKind       string
		journalEntry pgtype.Int8
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		deletedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&tr.ID,
		&tr.UserID,
		&occurredAt,
		&amount,
		&fromKind,
		&tr.From.ID,
		&toKind,
		&tr.To.ID,
		&tr.Method,
		&tr.Memo,
		&journalEntry,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	tr.OccurredAt = occurredAt.Time
	tr.Amount = numericToDecimal(amount)
	tr.From.Kind = domain.AccountKind(fromKind)
	tr.To.Kind = domain.AccountKind(toKind)
	tr.JournalEntryID = pgInt8ToInt64Ptr(journalEntry)
	tr.CreatedAt = createdAt.Time
	tr.UpdatedAt = updatedAt.Time
	tr.DeletedAt = pgTimestamptzToTimePtr(deletedAt)

	return &tr, nil
}
