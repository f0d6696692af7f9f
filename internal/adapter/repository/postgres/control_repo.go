package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrackhq/fintrack/internal/domain"
)

// ControlAccountRepository implements usecase.ControlAccountRepository.
type ControlAccountRepository struct {
	pool *pgxpool.Pool
}

// NewControlAccountRepository creates a new ControlAccountRepository.
func NewControlAccountRepository(pool *pgxpool.Pool) *ControlAccountRepository {
	return &ControlAccountRepository{pool: pool}
}

// EnsureDefaults creates the two control accounts if they do not exist
// yet and returns the handle. Runs once at process start; concurrent
// bootstraps race harmlessly on the unique type constraint.
func (r *ControlAccountRepository) EnsureDefaults(ctx context.Context) (*domain.ControlAccounts, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO control_accounts (name, type, description)
		VALUES
			('Income Control', 'income', 'Balancing counterparty for income entries'),
			('Expense Control', 'expense', 'Balancing counterparty for expense entries')
		ON CONFLICT (type) DO NOTHING`)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, description
		FROM control_accounts
		ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	controls := &domain.ControlAccounts{}
	for rows.Next() {
		var (
			account domain.ControlAccount
			ctype   string
		)
		if err := rows.Scan(&account.ID, &account.Name, &ctype, &account.Description); err != nil {
			return nil, err
		}
		account.Type = domain.ControlType(ctype)

		switch account.Type {
		case domain.ControlTypeIncome:
			controls.Income = &account
		case domain.ControlTypeExpense:
			controls.Expense = &account
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if controls.Income == nil || controls.Expense == nil {
		return nil, domain.ErrControlMissing
	}

	return controls, nil
}
