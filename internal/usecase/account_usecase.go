package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// AccountUseCase manages bank accounts and credit cards. Creating an
// account also materializes its balance row eagerly so the first
// posting finds a row to lock instead of racing on insert.
type AccountUseCase struct {
	txManager   TransactionManager
	bankRepo    BankAccountRepository
	cardRepo    CreditCardRepository
	balanceRepo BalanceRepository
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	bankRepo BankAccountRepository,
	cardRepo CreditCardRepository,
	balanceRepo BalanceRepository,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		bankRepo:    bankRepo,
		cardRepo:    cardRepo,
		balanceRepo: balanceRepo,
	}
}

// WithMetrics enables instrumentation.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateBankAccountInput represents input for creating a bank account.
type CreateBankAccountInput struct {
	UserID             int64
	Name               string
	Institution        string
	AccountNumberLast4 string
	OpeningBalance     decimal.Decimal
	Currency           string
	OpenedOn           *time.Time
	Notes              string
}

// BankAccountView is a bank account with its current balance.
type BankAccountView struct {
	Account *domain.BankAccount
	Balance decimal.Decimal
}

// CreateBankAccount creates a bank account and its balance row.
func (uc *AccountUseCase) CreateBankAccount(ctx context.Context, input CreateBankAccountInput) (*BankAccountView, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	now := time.Now().UTC()
	account := &domain.BankAccount{
		UserID:             input.UserID,
		Name:               input.Name,
		Institution:        input.Institution,
		AccountNumberLast4: input.AccountNumberLast4,
		OpeningBalance:     input.OpeningBalance,
		Currency:           currency,
		Status:             domain.AccountStatusActive,
		OpenedOn:           input.OpenedOn,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.bankRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	err = uc.balanceRepo.Put(ctx, tx, &domain.AccountBalance{
		Account:       account.Ref(),
		BalanceAmount: account.OpeningBalance,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.WithLabelValues(string(domain.AccountKindBank)).Inc()
	}

	return &BankAccountView{Account: account, Balance: account.OpeningBalance}, nil
}

// GetBankAccount returns one bank account with its balance.
func (uc *AccountUseCase) GetBankAccount(ctx context.Context, userID, id int64) (*BankAccountView, error) {
	account, err := uc.bankRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	balance, err := uc.currentBalance(ctx, account)
	if err != nil {
		return nil, err
	}

	return &BankAccountView{Account: account, Balance: balance}, nil
}

// ListBankAccounts returns a user's bank accounts with balances.
func (uc *AccountUseCase) ListBankAccounts(ctx context.Context, userID int64, includeArchived bool) ([]*BankAccountView, error) {
	accounts, err := uc.bankRepo.ListByUser(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}

	views := make([]*BankAccountView, 0, len(accounts))
	for _, account := range accounts {
		balance, err := uc.currentBalance(ctx, account)
		if err != nil {
			return nil, err
		}
		views = append(views, &BankAccountView{Account: account, Balance: balance})
	}

	return views, nil
}

// UpdateBankAccountInput represents the mutable bank account fields.
// The opening balance is deliberately absent: it is fixed at creation
// so posting history stays reconstructible.
type UpdateBankAccountInput struct {
	UserID             int64
	ID                 int64
	Name               string
	Institution        string
	AccountNumberLast4 string
	OpenedOn           *time.Time
	Notes              string
}

// UpdateBankAccount edits a bank account's descriptive fields.
func (uc *AccountUseCase) UpdateBankAccount(ctx context.Context, input UpdateBankAccountInput) (*BankAccountView, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	account, err := uc.bankRepo.GetForUser(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	account.Name = input.Name
	account.Institution = input.Institution
	account.AccountNumberLast4 = input.AccountNumberLast4
	account.OpenedOn = input.OpenedOn
	account.Notes = input.Notes
	account.UpdatedAt = time.Now().UTC()

	if err := uc.bankRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	balance, err := uc.currentBalance(ctx, account)
	if err != nil {
		return nil, err
	}

	return &BankAccountView{Account: account, Balance: balance}, nil
}

// ArchiveBankAccount retires an account from new postings. History and
// the materialized balance stay intact.
func (uc *AccountUseCase) ArchiveBankAccount(ctx context.Context, userID, id int64) error {
	return uc.setBankStatus(ctx, userID, id, domain.AccountStatusArchived)
}

// ActivateBankAccount returns an archived account to service.
func (uc *AccountUseCase) ActivateBankAccount(ctx context.Context, userID, id int64) error {
	return uc.setBankStatus(ctx, userID, id, domain.AccountStatusActive)
}

func (uc *AccountUseCase) setBankStatus(ctx context.Context, userID, id int64, status domain.AccountStatus) error {
	account, err := uc.bankRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := uc.bankRepo.UpdateStatus(ctx, account.ID, status, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil && status == domain.AccountStatusArchived {
		uc.metrics.AccountsArchived.WithLabelValues(string(domain.AccountKindBank)).Inc()
	}

	return nil
}

// CreateCreditCardInput represents input for creating a credit card.
type CreateCreditCardInput struct {
	UserID          int64
	Name            string
	Institution     string
	CardNumberLast4 string
	CardType        string
	CreditLimit     decimal.Decimal
	BillingDay      int
	DueDay          int
	OpeningBalance  decimal.Decimal
	Currency        string
}

// CreditCardView is a credit card with its balance and derived figures.
type CreditCardView struct {
	Card            *domain.CreditCard
	Balance         decimal.Decimal
	AvailableCredit decimal.Decimal
	AmountOwed      decimal.Decimal
}

// CreateCreditCard creates a credit card and its balance row.
func (uc *AccountUseCase) CreateCreditCard(ctx context.Context, input CreateCreditCardInput) (*CreditCardView, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	currency := input.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	now := time.Now().UTC()
	card := &domain.CreditCard{
		UserID:          input.UserID,
		Name:            input.Name,
		Institution:     input.Institution,
		CardNumberLast4: input.CardNumberLast4,
		CardType:        input.CardType,
		CreditLimit:     input.CreditLimit,
		BillingDay:      input.BillingDay,
		DueDay:          input.DueDay,
		OpeningBalance:  input.OpeningBalance,
		Currency:        currency,
		Status:          domain.AccountStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.cardRepo.Create(ctx, tx, card); err != nil {
		return nil, err
	}

	err = uc.balanceRepo.Put(ctx, tx, &domain.AccountBalance{
		Account:       card.Ref(),
		BalanceAmount: card.OpeningBalance,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.WithLabelValues(string(domain.AccountKindCreditCard)).Inc()
	}

	return uc.cardView(card, card.OpeningBalance), nil
}

// GetCreditCard returns one credit card with balance and derived figures.
func (uc *AccountUseCase) GetCreditCard(ctx context.Context, userID, id int64) (*CreditCardView, error) {
	card, err := uc.cardRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	balance, err := uc.currentBalance(ctx, card)
	if err != nil {
		return nil, err
	}

	return uc.cardView(card, balance), nil
}

// ListCreditCards returns a user's credit cards with balances.
func (uc *AccountUseCase) ListCreditCards(ctx context.Context, userID int64, includeArchived bool) ([]*CreditCardView, error) {
	cards, err := uc.cardRepo.ListByUser(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}

	views := make([]*CreditCardView, 0, len(cards))
	for _, card := range cards {
		balance, err := uc.currentBalance(ctx, card)
		if err != nil {
			return nil, err
		}
		views = append(views, uc.cardView(card, balance))
	}

	return views, nil
}

// UpdateCreditCardInput represents the mutable credit card fields.
type UpdateCreditCardInput struct {
	UserID          int64
	ID              int64
	Name            string
	Institution     string
	CardNumberLast4 string
	CardType        string
	CreditLimit     decimal.Decimal
	BillingDay      int
	DueDay          int
}

// UpdateCreditCard edits a credit card's descriptive fields and limits.
func (uc *AccountUseCase) UpdateCreditCard(ctx context.Context, input UpdateCreditCardInput) (*CreditCardView, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	card, err := uc.cardRepo.GetForUser(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	card.Name = input.Name
	card.Institution = input.Institution
	card.CardNumberLast4 = input.CardNumberLast4
	card.CardType = input.CardType
	card.CreditLimit = input.CreditLimit
	card.BillingDay = input.BillingDay
	card.DueDay = input.DueDay
	card.UpdatedAt = time.Now().UTC()

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	balance, err := uc.currentBalance(ctx, card)
	if err != nil {
		return nil, err
	}

	return uc.cardView(card, balance), nil
}

// ArchiveCreditCard retires a card from new postings.
func (uc *AccountUseCase) ArchiveCreditCard(ctx context.Context, userID, id int64) error {
	return uc.setCardStatus(ctx, userID, id, domain.AccountStatusArchived)
}

// ActivateCreditCard returns an archived card to service.
func (uc *AccountUseCase) ActivateCreditCard(ctx context.Context, userID, id int64) error {
	return uc.setCardStatus(ctx, userID, id, domain.AccountStatusActive)
}

func (uc *AccountUseCase) setCardStatus(ctx context.Context, userID, id int64, status domain.AccountStatus) error {
	card, err := uc.cardRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := uc.cardRepo.UpdateStatus(ctx, card.ID, status, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil && status == domain.AccountStatusArchived {
		uc.metrics.AccountsArchived.WithLabelValues(string(domain.AccountKindCreditCard)).Inc()
	}

	return nil
}

func (uc *AccountUseCase) cardView(card *domain.CreditCard, balance decimal.Decimal) *CreditCardView {
	return &CreditCardView{
		Card:            card,
		Balance:         balance,
		AvailableCredit: card.AvailableCredit(balance),
		AmountOwed:      card.AmountOwed(balance),
	}
}

func (uc *AccountUseCase) currentBalance(ctx context.Context, account domain.BalanceAccount) (decimal.Decimal, error) {
	balance, err := uc.balanceRepo.Get(ctx, account.Ref())
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return account.Opening(), nil
		}
		return decimal.Zero, err
	}

	return balance.BalanceAmount, nil
}
