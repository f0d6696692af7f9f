package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// ReportingRepository implements usecase.ReportingRepository with
// aggregate queries over live transactions and journal postings.
type ReportingRepository struct {
	pool *pgxpool.Pool
}

// NewReportingRepository creates a new ReportingRepository.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepository {
	return &ReportingRepository{pool: pool}
}

// IncomeExpenseTotals sums a user's live transactions in [start, end).
func (r *ReportingRepository) IncomeExpenseTotals(ctx context.Context, userID int64, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var income, expense pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
			AND deleted_at IS NULL
			AND occurred_at >= $2
			AND occurred_at < $3`,
		userID, timeToPgTimestamptz(start), timeToPgTimestamptz(end),
	).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(income), numericToDecimal(expense), nil
}

// ExpenseByCategory groups a user's live expenses since start by
// category. Uncategorized spending shows up as a single unnamed slice.
func (r *ReportingRepository) ExpenseByCategory(ctx context.Context, userID int64, start time.Time) ([]usecase.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(c.name, ''), COALESCE(c.color, ''), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
			AND t.kind = 'expense'
			AND t.deleted_at IS NULL
			AND t.occurred_at >= $2
		GROUP BY c.name, c.color
		ORDER BY SUM(t.amount) DESC`,
		userID, timeToPgTimestamptz(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.CategoryTotal
	for rows.Next() {
		var (
			ct    usecase.CategoryTotal
			total pgtype.Numeric
		)
		if err := rows.Scan(&ct.Name, &ct.Color, &total); err != nil {
			return nil, err
		}
		ct.Total = numericToDecimal(total)
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

// BankOpeningTotal sums opening balances of the user's bank accounts
// created up to the cutoff (inclusive). Archived accounts still count;
// their history did happen.
func (r *ReportingRepository) BankOpeningTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(opening_balance), 0)
		FROM bank_accounts
		WHERE user_id = $1 AND created_at <= $2`,
		userID, timeToPgTimestamptz(until),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// BankPostingTotal replays postings against the user's bank accounts
// whose journal entry occurred up to the cutoff (inclusive), bypassing
// the materialized balances.
func (r *ReportingRepository) BankPostingTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM postings p
		JOIN journal_entries e ON e.id = p.journal_entry_id
		JOIN bank_accounts a ON a.id = p.account_id
		WHERE p.account_kind = $1
			AND a.user_id = $2
			AND e.occurred_at <= $3`,
		string(domain.AccountKindBank), userID, timeToPgTimestamptz(until),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}
