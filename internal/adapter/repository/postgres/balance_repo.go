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

// BalanceRepository implements usecase.BalanceRepository over the
// account_balances table, keyed by (account_kind, account_id).
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// Get reads the balance row without locking.
func (r *BalanceRepository) Get(ctx context.Context, ref domain.AccountRef) (*domain.AccountBalance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT account_kind, account_id, balance_amount, last_posting_id, updated_at
		FROM account_balances
		WHERE account_kind = $1 AND account_id = $2`,
		string(ref.Kind), ref.ID)

	return scanBalance(row)
}

// GetForUpdateOrCreate takes an exclusive row lock on the balance,
// inserting the row with the opening amount first when it does not
// exist. Two concurrent postings against the same account serialize on
// this lock.
func (r *BalanceRepository) GetForUpdateOrCreate(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef, opening decimal.Decimal) (*domain.AccountBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO account_balances (account_kind, account_id, balance_amount, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (account_kind, account_id) DO NOTHING`,
		string(ref.Kind), ref.ID, decimalToNumeric(opening))
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(ctx, `
		SELECT account_kind, account_id, balance_amount, last_posting_id, updated_at
		FROM account_balances
		WHERE account_kind = $1 AND account_id = $2
		FOR UPDATE`,
		string(ref.Kind), ref.ID)

	return scanBalance(row)
}

// Save persists the amount, last posting and timestamp of a row locked
// earlier in the same transaction.
func (r *BalanceRepository) Save(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE account_balances
		SET balance_amount = $3, last_posting_id = $4, updated_at = $5
		WHERE account_kind = $1 AND account_id = $2`,
		string(balance.Account.Kind),
		balance.Account.ID,
		decimalToNumeric(balance.BalanceAmount),
		int64PtrToPgInt8(balance.LastPostingID),
		timeToPgTimestamptz(balance.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBalanceNotFound
	}

	return nil
}

// Put upserts a balance row wholesale. Recalculation uses it to write
// the authoritative value regardless of what was there.
func (r *BalanceRepository) Put(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO account_balances (account_kind, account_id, balance_amount, last_posting_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_kind, account_id) DO UPDATE
		SET balance_amount = EXCLUDED.balance_amount,
			last_posting_id = EXCLUDED.last_posting_id,
			updated_at = EXCLUDED.updated_at`,
		string(balance.Account.Kind),
		balance.Account.ID,
		decimalToNumeric(balance.BalanceAmount),
		int64PtrToPgInt8(balance.LastPostingID),
		timeToPgTimestamptz(balance.UpdatedAt),
	)

	return err
}

func scanBalance(row pgx.Row) (*domain.AccountBalance, error) {
	var (
		balance     domain.AccountBalance
		kind        string
		amount      pgtype.Numeric
		lastPosting pgtype.Int8
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&kind, &balance.Account.ID, &amount, &lastPosting, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, err
	}

	balance.Account.Kind = domain.AccountKind(kind)
	balance.BalanceAmount = numericToDecimal(amount)
	balance.LastPostingID = pgInt8ToInt64Ptr(lastPosting)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
