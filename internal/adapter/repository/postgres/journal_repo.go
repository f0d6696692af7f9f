package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository over the
// journal_entries and postings tables.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateEntry inserts a journal entry and fills in the assigned id.
func (r *JournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, `
		INSERT INTO journal_entries (user_id, occurred_at, memo, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		entry.UserID,
		timeToPgTimestamptz(entry.OccurredAt),
		entry.Memo,
		timeToPgTimestamptz(entry.CreatedAt),
	).Scan(&entry.ID)
}

// CreatePosting inserts a posting and fills in the assigned id. The
// sign convention is enforced in the domain before this call and
// double-checked by a table constraint.
func (r *JournalRepository) CreatePosting(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if err := posting.Validate(); err != nil {
		return err
	}

	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, `
		INSERT INTO postings (journal_entry_id, account_kind, account_id, amount, posting_type, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		posting.JournalEntryID,
		string(posting.Account.Kind),
		posting.Account.ID,
		decimalToNumeric(posting.Amount),
		string(posting.Type),
		posting.Memo,
		timeToPgTimestamptz(posting.CreatedAt),
	).Scan(&posting.ID)
}

// GetEntry retrieves a journal entry by id.
func (r *JournalRepository) GetEntry(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	var (
		entry      domain.JournalEntry
		occurredAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, occurred_at, memo, created_at
		FROM journal_entries
		WHERE id = $1`, id,
	).Scan(&entry.ID, &entry.UserID, &occurredAt, &entry.Memo, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.OccurredAt = occurredAt.Time
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

// ListEntryPostings returns an entry's postings in insertion order.
func (r *JournalRepository) ListEntryPostings(ctx context.Context, entryID int64) ([]*domain.Posting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, journal_entry_id, account_kind, account_id, amount, posting_type, memo, created_at
		FROM postings
		WHERE journal_entry_id = $1
		ORDER BY id`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*domain.Posting
	for rows.Next() {
		var (
			posting   domain.Posting
			kind      string
			amount    pgtype.Numeric
			ptype     string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&posting.ID,
			&posting.JournalEntryID,
			&kind,
			&posting.Account.ID,
			&amount,
			&ptype,
			&posting.Memo,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		posting.Account.Kind = domain.AccountKind(kind)
		posting.Amount = numericToDecimal(amount)
		posting.Type = domain.PostingType(ptype)
		posting.CreatedAt = createdAt.Time

		postings = append(postings, &posting)
	}

	return postings, rows.Err()
}

// SumEntryPostings computes the net amount of an entry's postings
// inside the creating transaction, so the zero-sum check sees
// uncommitted rows.
func (r *JournalRepository) SumEntryPostings(ctx context.Context, tx usecase.Transaction, entryID int64) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var sum pgtype.Numeric
	err := pgxTx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM postings
		WHERE journal_entry_id = $1`, entryID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// DeleteEntry removes an entry; postings cascade at the schema level.
func (r *JournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, id int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// DeleteOrphanEntries removes entries no transaction or transfer points
// at anymore, live or soft-deleted.
func (r *JournalRepository) DeleteOrphanEntries(ctx context.Context, tx usecase.Transaction) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM journal_entries je
		WHERE NOT EXISTS (
			SELECT 1 FROM transactions t WHERE t.journal_entry_id = je.id
		)
		AND NOT EXISTS (
			SELECT 1 FROM transfers tr WHERE tr.journal_entry_id = je.id
		)`)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// LivePostingTotals sums the postings against one account whose journal
// entry is referenced by a non-deleted transaction or transfer, and
// reports the newest such posting's id.
func (r *JournalRepository) LivePostingTotals(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef) (decimal.Decimal, *int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var (
		total       pgtype.Numeric
		lastPosting pgtype.Int8
	)

	err := pgxTx.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0), MAX(p.id)
		FROM postings p
		WHERE p.account_kind = $1 AND p.account_id = $2
		AND (
			EXISTS (
				SELECT 1 FROM transactions t
				WHERE t.journal_entry_id = p.journal_entry_id AND t.deleted_at IS NULL
			)
			OR EXISTS (
				SELECT 1 FROM transfers tr
				WHERE tr.journal_entry_id = p.journal_entry_id AND tr.deleted_at IS NULL
			)
		)`,
		string(ref.Kind), ref.ID,
	).Scan(&total, &lastPosting)
	if err != nil {
		return decimal.Zero, nil, err
	}

	return numericToDecimal(total), pgInt8ToInt64Ptr(lastPosting), nil
}
