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

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

const bankAccountColumns = `id, user_id, name, institution, account_number_last4,
	opening_balance, currency, status, opened_on, notes, created_at, updated_at`

// Create inserts a bank account inside the given transaction and fills
// in the assigned id.
func (r *BankAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.BankAccount) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, `
		INSERT INTO bank_accounts (user_id, name, institution, account_number_last4,
			opening_balance, currency, status, opened_on, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		account.UserID,
		account.Name,
		account.Institution,
		account.AccountNumberLast4,
		decimalToNumeric(account.OpeningBalance),
		account.Currency,
		string(account.Status),
		datePtrToPgDate(account.OpenedOn),
		account.Notes,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	).Scan(&account.ID)
}

// GetByID retrieves a bank account by id.
func (r *BankAccountRepository) GetByID(ctx context.Context, id int64) (*domain.BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bankAccountColumns+`
		FROM bank_accounts
		WHERE id = $1`, id)

	return scanBankAccount(row)
}

// GetForUser retrieves a bank account owned by the given user.
func (r *BankAccountRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bankAccountColumns+`
		FROM bank_accounts
		WHERE id = $1 AND user_id = $2`, id, userID)

	return scanBankAccount(row)
}

// ListByUser lists a user's bank accounts, optionally including
// archived ones.
func (r *BankAccountRepository) ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.BankAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bankAccountColumns+`
		FROM bank_accounts
		WHERE user_id = $1 AND ($2 OR status = 'active')
		ORDER BY id`, userID, includeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBankAccounts(rows)
}

// ListActive lists every active bank account. Used by recalculation.
func (r *BankAccountRepository) ListActive(ctx context.Context) ([]*domain.BankAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bankAccountColumns+`
		FROM bank_accounts
		WHERE status = 'active'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBankAccounts(rows)
}

// Update persists a bank account's descriptive fields.
func (r *BankAccountRepository) Update(ctx context.Context, account *domain.BankAccount) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bank_accounts
		SET name = $2, institution = $3, account_number_last4 = $4,
			opened_on = $5, notes = $6, updated_at = $7
		WHERE id = $1`,
		account.ID,
		account.Name,
		account.Institution,
		account.AccountNumberLast4,
		datePtrToPgDate(account.OpenedOn),
		account.Notes,
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateStatus archives or reactivates an account.
func (r *BankAccountRepository) UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bank_accounts
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var (
		account   domain.BankAccount
		opening   pgtype.Numeric
		status    string
		openedOn  pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Institution,
		&account.AccountNumberLast4,
		&opening,
		&account.Currency,
		&status,
		&openedOn,
		&account.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.OpeningBalance = numericToDecimal(opening)
	account.Status = domain.AccountStatus(status)
	account.OpenedOn = pgDateToTimePtr(openedOn)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

func scanBankAccounts(rows pgx.Rows) ([]*domain.BankAccount, error) {
	var accounts []*domain.BankAccount
	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
