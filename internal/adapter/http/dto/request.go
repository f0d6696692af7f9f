package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

var validate = validator.New()

// Validate runs struct-tag validation on any request type.
func Validate(req any) error {
	return validate.Struct(req)
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateBankAccountRequest represents a request to create a bank account.
type CreateBankAccountRequest struct {
	Name               string          `json:"name" validate:"required,max=100"`
	Institution        string          `json:"institution" validate:"max=100"`
	AccountNumberLast4 string          `json:"account_number_last4" validate:"omitempty,len=4,numeric"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	Currency           string          `json:"currency" validate:"omitempty,len=3"`
	OpenedOn           *time.Time      `json:"opened_on,omitempty"`
	Notes              string          `json:"notes" validate:"max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBankAccountRequest) ToUseCaseInput(userID int64) usecase.CreateBankAccountInput {
	return usecase.CreateBankAccountInput{
		UserID:             userID,
		Name:               r.Name,
		Institution:        r.Institution,
		AccountNumberLast4: r.AccountNumberLast4,
		OpeningBalance:     r.OpeningBalance,
		Currency:           r.Currency,
		OpenedOn:           r.OpenedOn,
		Notes:              r.Notes,
	}
}

// UpdateBankAccountRequest edits a bank account's descriptive fields.
// The opening balance is deliberately absent; it is immutable.
type UpdateBankAccountRequest struct {
	Name               string     `json:"name" validate:"required,max=100"`
	Institution        string     `json:"institution" validate:"max=100"`
	AccountNumberLast4 string     `json:"account_number_last4" validate:"omitempty,len=4,numeric"`
	OpenedOn           *time.Time `json:"opened_on,omitempty"`
	Notes              string     `json:"notes" validate:"max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBankAccountRequest) ToUseCaseInput(userID, id int64) usecase.UpdateBankAccountInput {
	return usecase.UpdateBankAccountInput{
		UserID:             userID,
		ID:                 id,
		Name:               r.Name,
		Institution:        r.Institution,
		AccountNumberLast4: r.AccountNumberLast4,
		OpenedOn:           r.OpenedOn,
		Notes:              r.Notes,
	}
}

// CreateCreditCardRequest represents a request to create a credit card.
type CreateCreditCardRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Institution     string          `json:"institution" validate:"max=100"`
	CardNumberLast4 string          `json:"card_number_last4" validate:"omitempty,len=4,numeric"`
	CardType        string          `json:"card_type" validate:"max=50"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	BillingDay      int             `json:"billing_day" validate:"omitempty,min=1,max=31"`
	DueDay          int             `json:"due_day" validate:"omitempty,min=1,max=31"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	Currency        string          `json:"currency" validate:"omitempty,len=3"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCreditCardRequest) ToUseCaseInput(userID int64) usecase.CreateCreditCardInput {
	return usecase.CreateCreditCardInput{
		UserID:          userID,
		Name:            r.Name,
		Institution:     r.Institution,
		CardNumberLast4: r.CardNumberLast4,
		CardType:        r.CardType,
		CreditLimit:     r.CreditLimit,
		BillingDay:      r.BillingDay,
		DueDay:          r.DueDay,
		OpeningBalance:  r.OpeningBalance,
		Currency:        r.Currency,
	}
}

// UpdateCreditCardRequest edits a credit card's descriptive fields and
// limits.
type UpdateCreditCardRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Institution     string          `json:"institution" validate:"max=100"`
	CardNumberLast4 string          `json:"card_number_last4" validate:"omitempty,len=4,numeric"`
	CardType        string          `json:"card_type" validate:"max=50"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	BillingDay      int             `json:"billing_day" validate:"omitempty,min=1,max=31"`
	DueDay          int             `json:"due_day" validate:"omitempty,min=1,max=31"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCreditCardRequest) ToUseCaseInput(userID, id int64) usecase.UpdateCreditCardInput {
	return usecase.UpdateCreditCardInput{
		UserID:          userID,
		ID:              id,
		Name:            r.Name,
		Institution:     r.Institution,
		CardNumberLast4: r.CardNumberLast4,
		CardType:        r.CardType,
		CreditLimit:     r.CreditLimit,
		BillingDay:      r.BillingDay,
		DueDay:          r.DueDay,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Kind  string `json:"kind" validate:"required,oneof=income expense"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(userID int64) usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		UserID: userID,
		Name:   r.Name,
		Kind:   domain.TransactionKind(r.Kind),
		Color:  r.Color,
	}
}

// UpdateCategoryRequest edits a category. The kind is immutable.
type UpdateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput(userID, id int64) usecase.UpdateCategoryInput {
	return usecase.UpdateCategoryInput{
		UserID: userID,
		ID:     id,
		Name:   r.Name,
		Color:  r.Color,
	}
}

// AccountRefRequest identifies a balance-carrying account.
type AccountRefRequest struct {
	Kind string `json:"kind" validate:"required,oneof=bank credit_card"`
	ID   int64  `json:"id" validate:"required,min=1"`
}

// ToDomain converts to a domain ref.
func (r AccountRefRequest) ToDomain() domain.AccountRef {
	return domain.AccountRef{Kind: domain.AccountKind(r.Kind), ID: r.ID}
}

// CreateTransactionRequest represents a request to record income or an
// expense.
type CreateTransactionRequest struct {
	Kind       string            `json:"kind" validate:"required,oneof=income expense"`
	Account    AccountRefRequest `json:"account" validate:"required"`
	Amount     decimal.Decimal   `json:"amount" validate:"required"`
	OccurredAt time.Time         `json:"occurred_at" validate:"required"`
	Method     string            `json:"method" validate:"max=50"`
	Purpose    string            `json:"purpose" validate:"max=2000"`
	CategoryID *int64            `json:"category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(userID int64) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		UserID:     userID,
		Kind:       domain.TransactionKind(r.Kind),
		Account:    r.Account.ToDomain(),
		Amount:     r.Amount,
		OccurredAt: r.OccurredAt,
		Method:     r.Method,
		Purpose:    r.Purpose,
		CategoryID: r.CategoryID,
	}
}

// UpdateTransactionRequest represents a request to edit a transaction.
type UpdateTransactionRequest struct {
	Kind       string            `json:"kind" validate:"required,oneof=income expense"`
	Account    AccountRefRequest `json:"account" validate:"required"`
	Amount     decimal.Decimal   `json:"amount" validate:"required"`
	OccurredAt time.Time         `json:"occurred_at" validate:"required"`
	Method     string            `json:"method" validate:"max=50"`
	Purpose    string            `json:"purpose" validate:"max=2000"`
	CategoryID *int64            `json:"category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(userID int64, id string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		ID:         id,
		UserID:     userID,
		Kind:       domain.TransactionKind(r.Kind),
		Account:    r.Account.ToDomain(),
		Amount:     r.Amount,
		OccurredAt: r.OccurredAt,
		Method:     r.Method,
		Purpose:    r.Purpose,
		CategoryID: r.CategoryID,
	}
}

// CreateTransferRequest represents a request to move money between two
// owned accounts.
type CreateTransferRequest struct {
	From       AccountRefRequest `json:"from" validate:"required"`
	To         AccountRefRequest `json:"to" validate:"required"`
	Amount     decimal.Decimal   `json:"amount" validate:"required"`
	OccurredAt time.Time         `json:"occurred_at" validate:"required"`
	Method     string            `json:"method" validate:"max=50"`
	Memo       string            `json:"memo" validate:"max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(userID int64) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		UserID:     userID,
		From:       r.From.ToDomain(),
		To:         r.To.ToDomain(),
		Amount:     r.Amount,
		OccurredAt: r.OccurredAt,
		Method:     r.Method,
		Memo:       r.Memo,
	}
}

// UpdateTransferRequest represents a request to edit a transfer.
type UpdateTransferRequest struct {
	From       AccountRefRequest `json:"from" validate:"required"`
	To         AccountRefRequest `json:"to" validate:"required"`
	Amount     decimal.Decimal   `json:"amount" validate:"required"`
	OccurredAt time.Time         `json:"occurred_at" validate:"required"`
	Method     string            `json:"method" validate:"max=50"`
	Memo       string            `json:"memo" validate:"max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransferRequest) ToUseCaseInput(userID int64, id string) usecase.UpdateTransferInput {
	return usecase.UpdateTransferInput{
		ID:         id,
		UserID:     userID,
		From:       r.From.ToDomain(),
		To:         r.To.ToDomain(),
		Amount:     r.Amount,
		OccurredAt: r.OccurredAt,
		Method:     r.Method,
		Memo:       r.Memo,
	}
}

// RecalculateRequest represents a request to run the balance repair job.
type RecalculateRequest struct {
	DryRun         bool `json:"dry_run"`
	CleanupOrphans bool `json:"cleanup_orphans"`
}

// ToUseCaseInput converts to use case input.
func (r *RecalculateRequest) ToUseCaseInput() usecase.RecalculateInput {
	return usecase.RecalculateInput{
		DryRun:         r.DryRun,
		CleanupOrphans: r.CleanupOrphans,
	}
}
