package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse carries a signed JWT after login.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// BankAccountResponse represents a bank account in API responses.
type BankAccountResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Institution    string          `json:"institution,omitempty"`
	MaskedNumber   string          `json:"masked_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	OpenedOn       *time.Time      `json:"opened_on,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankAccountFromView converts an account view to a response.
func BankAccountFromView(v *usecase.BankAccountView) *BankAccountResponse {
	a := v.Account
	return &BankAccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Institution:    a.Institution,
		MaskedNumber:   a.MaskedNumber(),
		OpeningBalance: a.OpeningBalance,
		Balance:        v.Balance,
		Currency:       a.Currency,
		Status:         string(a.Status),
		OpenedOn:       a.OpenedOn,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// BankAccountsFromViews converts account views to responses.
func BankAccountsFromViews(views []*usecase.BankAccountView) []*BankAccountResponse {
	result := make([]*BankAccountResponse, len(views))
	for i, v := range views {
		result[i] = BankAccountFromView(v)
	}
	return result
}

// CreditCardResponse represents a credit card in API responses.
type CreditCardResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Institution     string          `json:"institution,omitempty"`
	MaskedNumber    string          `json:"masked_number"`
	CardType        string          `json:"card_type,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	BillingDay      int             `json:"billing_day,omitempty"`
	DueDay          int             `json:"due_day,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	AmountOwed      decimal.Decimal `json:"amount_owed"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreditCardFromView converts a card view to a response.
func CreditCardFromView(v *usecase.CreditCardView) *CreditCardResponse {
	c := v.Card
	return &CreditCardResponse{
		ID:              c.ID,
		Name:            c.Name,
		Institution:     c.Institution,
		MaskedNumber:    c.MaskedNumber(),
		CardType:        c.CardType,
		CreditLimit:     c.CreditLimit,
		BillingDay:      c.BillingDay,
		DueDay:          c.DueDay,
		Balance:         v.Balance,
		AvailableCredit: v.AvailableCredit,
		AmountOwed:      v.AmountOwed,
		Currency:        c.Currency,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CreditCardsFromViews converts card views to responses.
func CreditCardsFromViews(views []*usecase.CreditCardView) []*CreditCardResponse {
	result := make([]*CreditCardResponse, len(views))
	for i, v := range views {
		result[i] = CreditCardFromView(v)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// AccountRefResponse identifies an account in responses.
type AccountRefResponse struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

func refFromDomain(r domain.AccountRef) AccountRefResponse {
	return AccountRefResponse{Kind: string(r.Kind), ID: r.ID}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Account    AccountRefResponse `json:"account"`
	Amount     decimal.Decimal    `json:"amount"`
	OccurredAt time.Time          `json:"occurred_at"`
	Method     string             `json:"method,omitempty"`
	Purpose    string             `json:"purpose,omitempty"`
	CategoryID *int64             `json:"category_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         t.ID,
		Kind:       string(t.Kind),
		Account:    refFromDomain(t.Account),
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt,
		Method:     t.Method,
		Purpose:    t.Purpose,
		CategoryID: t.CategoryID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionResultResponse is a transaction plus the account balance
// after the ledger write.
type TransactionResultResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Balance     decimal.Decimal      `json:"balance"`
}

// TransactionResultFromUseCase converts a use case result to a response.
func TransactionResultFromUseCase(r *usecase.TransactionResult) *TransactionResultResponse {
	return &TransactionResultResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Balance:     r.Balance,
	}
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID         string             `json:"id"`
	From       AccountRefResponse `json:"from"`
	To         AccountRefResponse `json:"to"`
	Amount     decimal.Decimal    `json:"amount"`
	OccurredAt time.Time          `json:"occurred_at"`
	Method     string             `json:"method,omitempty"`
	Memo       string             `json:"memo,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:         t.ID,
		From:       refFromDomain(t.From),
		To:         refFromDomain(t.To),
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt,
		Method:     t.Method,
		Memo:       t.Memo,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// TransferResultResponse is a transfer plus both balances after the
// ledger write.
type TransferResultResponse struct {
	Transfer    *TransferResponse `json:"transfer"`
	FromBalance decimal.Decimal   `json:"from_balance"`
	ToBalance   decimal.Decimal   `json:"to_balance"`
}

// TransferResultFromUseCase converts a use case result to a response.
func TransferResultFromUseCase(r *usecase.TransferResult) *TransferResultResponse {
	return &TransferResultResponse{
		Transfer:    TransferFromDomain(r.Transfer),
		FromBalance: r.FromBalance,
		ToBalance:   r.ToBalance,
	}
}

// RecalculateAccountResponse is one account's outcome in a repair run.
type RecalculateAccountResponse struct {
	Account    AccountRefResponse `json:"account"`
	Name       string             `json:"name"`
	Current    decimal.Decimal    `json:"current"`
	Expected   decimal.Decimal    `json:"expected"`
	Difference decimal.Decimal    `json:"difference"`
	Fixed      bool               `json:"fixed"`
}

// RecalculateResponse summarizes a balance repair run.
type RecalculateResponse struct {
	Accounts       []RecalculateAccountResponse `json:"accounts"`
	FixedCount     int                          `json:"fixed_count"`
	OrphansDeleted int64                        `json:"orphans_deleted"`
	DryRun         bool                         `json:"dry_run"`
	CheckedAt      time.Time                    `json:"checked_at"`
}

// RecalculateFromReport converts a use case report to a response.
func RecalculateFromReport(r *usecase.RecalculateReport) *RecalculateResponse {
	accounts := make([]RecalculateAccountResponse, len(r.Accounts))
	for i, a := range r.Accounts {
		accounts[i] = RecalculateAccountResponse{
			Account:    refFromDomain(a.Account),
			Name:       a.Name,
			Current:    a.Current,
			Expected:   a.Expected,
			Difference: a.Difference,
			Fixed:      a.Fixed,
		}
	}
	return &RecalculateResponse{
		Accounts:       accounts,
		FixedCount:     r.FixedCount,
		OrphansDeleted: r.OrphansDeleted,
		DryRun:         r.DryRun,
		CheckedAt:      r.CheckedAt,
	}
}

// ListResponse wraps a paged collection.
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
