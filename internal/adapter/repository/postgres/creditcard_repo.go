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

// CreditCardRepository implements usecase.CreditCardRepository.
type CreditCardRepository struct {
	pool *pgxpool.Pool
}

// NewCreditCardRepository creates a new CreditCardRepository.
func NewCreditCardRepository(pool *pgxpool.Pool) *CreditCardRepository {
	return &CreditCardRepository{pool: pool}
}

const creditCardColumns = `id, user_id, name, institution, card_number_last4, card_type,
	credit_limit, billing_day, due_day, opening_balance, currency, status, created_at, updated_at`

// Create inserts a credit card inside the given transaction and fills
// in the assigned id.
func (r *CreditCardRepository) Create(ctx context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, `
		INSERT INTO credit_cards (user_id, name, institution, card_number_last4, card_type,
			credit_limit, billing_day, due_day, opening_balance, currency, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		card.UserID,
		card.Name,
		card.Institution,
		card.CardNumberLast4,
		card.CardType,
		decimalToNumeric(card.CreditLimit),
		card.BillingDay,
		card.DueDay,
		decimalToNumeric(card.OpeningBalance),
		card.Currency,
		string(card.Status),
		timeToPgTimestamptz(card.CreatedAt),
		timeToPgTimestamptz(card.UpdatedAt),
	).Scan(&card.ID)
}

// GetByID retrieves a credit card by id.
func (r *CreditCardRepository) GetByID(ctx context.Context, id int64) (*domain.CreditCard, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+creditCardColumns+`
		FROM credit_cards
		WHERE id = $1`, id)

	return scanCreditCard(row)
}

// GetForUser retrieves a credit card owned by the given user.
func (r *CreditCardRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.CreditCard, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+creditCardColumns+`
		FROM credit_cards
		WHERE id = $1 AND user_id = $2`, id, userID)

	return scanCreditCard(row)
}

// ListByUser lists a user's credit cards.
func (r *CreditCardRepository) ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.CreditCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+creditCardColumns+`
		FROM credit_cards
		WHERE user_id = $1 AND ($2 OR status = 'active')
		ORDER BY id`, userID, includeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCreditCards(rows)
}

// ListActive lists every active credit card. Used by recalculation.
func (r *CreditCardRepository) ListActive(ctx context.Context) ([]*domain.CreditCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+creditCardColumns+`
		FROM credit_cards
		WHERE status = 'active'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCreditCards(rows)
}

// Update persists a credit card's descriptive fields and limits.
func (r *CreditCardRepository) Update(ctx context.Context, card *domain.CreditCard) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_cards
		SET name = $2, institution = $3, card_number_last4 = $4, card_type = $5,
			credit_limit = $6, billing_day = $7, due_day = $8, updated_at = $9
		WHERE id = $1`,
		card.ID,
		card.Name,
		card.Institution,
		card.CardNumberLast4,
		card.CardType,
		decimalToNumeric(card.CreditLimit),
		card.BillingDay,
		card.DueDay,
		timeToPgTimestamptz(card.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateStatus archives or reactivates a card.
func (r *CreditCardRepository) UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_cards
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

func scanCreditCard(row pgx.Row) (*domain.CreditCard, error) {
	var (
		card      domain.CreditCard
		limit     pgtype.Numeric
		opening   pgtype.Numeric
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Name,
		&card.Institution,
		&card.CardNumberLast4,
		&card.CardType,
		&limit,
		&card.BillingDay,
		&card.DueDay,
		&opening,
		&card.Currency,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	card.CreditLimit = numericToDecimal(limit)
	card.OpeningBalance = numericToDecimal(opening)
	card.Status = domain.AccountStatus(status)
	card.CreatedAt = createdAt.Time
	card.UpdatedAt = updatedAt.Time

	return &card, nil
}

func scanCreditCards(rows pgx.Rows) ([]*domain.CreditCard, error) {
	var cards []*domain.CreditCard
	for rows.Next() {
		card, err := scanCreditCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}
