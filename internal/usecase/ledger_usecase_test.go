package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
	"github.com/fintrackhq/fintrack/internal/usecase/mocks"
)

type ledgerFixture struct {
	uc          *usecase.LedgerUseCase
	txManager   *mocks.MockTransactionManager
	journalRepo *mocks.MockJournalRepository
	balanceRepo *mocks.MockBalanceRepository
	bankRepo    *mocks.MockBankAccountRepository
	cardRepo    *mocks.MockCreditCardRepository
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		txManager:   mocks.NewMockTransactionManager(),
		journalRepo: mocks.NewMockJournalRepository(),
		balanceRepo: mocks.NewMockBalanceRepository(),
		bankRepo:    mocks.NewMockBankAccountRepository(),
		cardRepo:    mocks.NewMockCreditCardRepository(),
	}
	f.uc = usecase.NewLedgerUseCase(
		f.txManager,
		f.journalRepo,
		f.balanceRepo,
		f.bankRepo,
		f.cardRepo,
		mocks.Controls(),
	)
	return f
}

func (f *ledgerFixture) seedBank(userID int64, opening string) *domain.BankAccount {
	return f.bankRepo.Seed(&domain.BankAccount{
		UserID:         userID,
		Name:           "Checking",
		OpeningBalance: decimal.RequireFromString(opening),
		Currency:       domain.DefaultCurrency,
		Status:         domain.AccountStatusActive,
	})
}

func TestCreateSimpleEntryIncome(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "1000.00")

	result, err := f.uc.CreateSimpleEntry(context.Background(), usecase.SimpleEntryInput{
		UserID:     1,
		Kind:       domain.TransactionKindIncome,
		Account:    account.Ref(),
		Amount:     decimal.RequireFromString("500.00"),
		OccurredAt: time.Now().UTC(),
		Memo:       "salary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Balance.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("balance = %s, want 1500.00", result.Balance)
	}

	postings, err := f.journalRepo.ListEntryPostings(context.Background(), result.Entry.ID)
	if err != nil {
		t.Fatalf("list postings: %v", err)
	}

	if len(postings) != 2 {
		t.Fatalf("postings = %d, want 2", len(postings))
	}

	if !domain.SumPostings(postings).IsZero() {
		t.Errorf("postings do not sum to zero")
	}

	user, control := postings[0], postings[1]
	if !user.Account.Equal(account.Ref()) {
		t.Fatalf("first posting targets %s, want user account", user.Account)
	}

	if user.Type != domain.PostingTypeDebit || !user.Amount.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("user posting = %s %s, want debit 500.00", user.Type, user.Amount)
	}

	if control.Account.Kind != domain.AccountKindControl {
		t.Errorf("second posting targets %s, want control account", control.Account)
	}
}

func TestCreateSimpleEntryExpense(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "1000.00")

	result, err := f.uc.CreateSimpleEntry(context.Background(), usecase.SimpleEntryInput{
		UserID:     1,
		Kind:       domain.TransactionKindExpense,
		Account:    account.Ref(),
		Amount:     decimal.RequireFromString("200.00"),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Balance.Equal(decimal.RequireFromString("800.00")) {
		t.Errorf("balance = %s, want 800.00", result.Balance)
	}

	postings, _ := f.journalRepo.ListEntryPostings(context.Background(), result.Entry.ID)
	user := postings[0]
	if user.Type != domain.PostingTypeCredit || !user.Amount.Equal(decimal.RequireFromString("-200.00")) {
		t.Errorf("user posting = %s %s, want credit -200.00", user.Type, user.Amount)
	}
}

func TestCreateSimpleEntryValidation(t *testing.T) {
	f := newLedgerFixture()
	active := f.seedBank(1, "0")
	archived := f.bankRepo.Seed(&domain.BankAccount{
		UserID:         1,
		Name:           "Old",
		OpeningBalance: decimal.Zero,
		Status:         domain.AccountStatusArchived,
	})
	other := f.seedBank(2, "0")

	tests := []struct {
		name    string
		input   usecase.SimpleEntryInput
		wantErr error
	}{
		{
			name: "zero amount",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: domain.TransactionKindIncome,
				Account: active.Ref(), Amount: decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: domain.TransactionKindExpense,
				Account: active.Ref(), Amount: decimal.RequireFromString("-10"),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown kind",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: "refund",
				Account: active.Ref(), Amount: decimal.NewFromInt(10),
			},
			wantErr: domain.ErrInvalidTransactionKind,
		},
		{
			name: "archived account",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: domain.TransactionKindIncome,
				Account: archived.Ref(), Amount: decimal.NewFromInt(10),
			},
			wantErr: domain.ErrAccountArchived,
		},
		{
			name: "control account target",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: domain.TransactionKindIncome,
				Account: domain.AccountRef{Kind: domain.AccountKindControl, ID: 1},
				Amount:  decimal.NewFromInt(10),
			},
			wantErr: domain.ErrBalanceNotSupported,
		},
		{
			name: "foreign account",
			input: usecase.SimpleEntryInput{
				UserID: 1, Kind: domain.TransactionKindIncome,
				Account: other.Ref(), Amount: decimal.NewFromInt(10),
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateSimpleEntry(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSimpleEntryUnbalancedRollsBack(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "1000.00")

	f.journalRepo.SumEntryPostingsFunc = func(ctx context.Context, tx usecase.Transaction, entryID int64) (decimal.Decimal, error) {
		return decimal.NewFromInt(1), nil
	}

	_, err := f.uc.CreateSimpleEntry(context.Background(), usecase.SimpleEntryInput{
		UserID:  1,
		Kind:    domain.TransactionKindIncome,
		Account: account.Ref(),
		Amount:  decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrUnbalanced) {
		t.Fatalf("err = %v, want %v", err, domain.ErrUnbalanced)
	}

	if len(f.txManager.Opened) != 1 {
		t.Fatalf("opened %d transactions, want 1", len(f.txManager.Opened))
	}

	tx := f.txManager.Opened[0]
	if tx.Committed || !tx.RolledBack {
		t.Errorf("committed=%v rolledback=%v, want rollback only", tx.Committed, tx.RolledBack)
	}
}

func TestCreateTransferEntry(t *testing.T) {
	f := newLedgerFixture()
	from := f.seedBank(1, "1000.00")
	to := f.seedBank(1, "0")

	result, err := f.uc.CreateTransferEntry(context.Background(), usecase.TransferEntryInput{
		UserID:     1,
		From:       from.Ref(),
		To:         to.Ref(),
		Amount:     decimal.RequireFromString("300.00"),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.FromBalance.Equal(decimal.RequireFromString("700.00")) {
		t.Errorf("from balance = %s, want 700.00", result.FromBalance)
	}

	if !result.ToBalance.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("to balance = %s, want 300.00", result.ToBalance)
	}

	postings, _ := f.journalRepo.ListEntryPostings(context.Background(), result.Entry.ID)
	if len(postings) != 2 {
		t.Fatalf("postings = %d, want 2", len(postings))
	}

	if !domain.SumPostings(postings).IsZero() {
		t.Errorf("postings do not sum to zero")
	}

	if !postings[0].Amount.Equal(decimal.RequireFromString("-300.00")) {
		t.Errorf("from posting = %s, want -300.00", postings[0].Amount)
	}

	if !postings[1].Amount.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("to posting = %s, want 300.00", postings[1].Amount)
	}
}

func TestCreateTransferEntrySameAccount(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "1000.00")

	_, err := f.uc.CreateTransferEntry(context.Background(), usecase.TransferEntryInput{
		UserID: 1,
		From:   account.Ref(),
		To:     account.Ref(),
		Amount: decimal.NewFromInt(50),
	})
	if !errors.Is(err, domain.ErrSameAccount) {
		t.Errorf("err = %v, want %v", err, domain.ErrSameAccount)
	}
}

func TestCreateTransferEntryAcrossKinds(t *testing.T) {
	f := newLedgerFixture()
	bank := f.seedBank(1, "1000.00")
	card := f.cardRepo.Seed(&domain.CreditCard{
		UserID:         1,
		Name:           "Visa",
		OpeningBalance: decimal.Zero,
		CreditLimit:    decimal.NewFromInt(50000),
		Status:         domain.AccountStatusActive,
	})

	// Same numeric id is fine as long as the kinds differ.
	result, err := f.uc.CreateTransferEntry(context.Background(), usecase.TransferEntryInput{
		UserID: 1,
		From:   bank.Ref(),
		To:     card.Ref(),
		Amount: decimal.RequireFromString("400.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ToBalance.Equal(decimal.RequireFromString("400.00")) {
		t.Errorf("card balance = %s, want 400.00", result.ToBalance)
	}
}

func TestReverseEntryRestoresBalance(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "1000.00")
	ctx := context.Background()

	result, err := f.uc.CreateSimpleEntry(ctx, usecase.SimpleEntryInput{
		UserID:  1,
		Kind:    domain.TransactionKindIncome,
		Account: account.Ref(),
		Amount:  decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tx, _ := f.txManager.Begin(ctx)
	if err := f.uc.ReverseEntryTx(ctx, tx, 1, result.Entry.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	balance, err := f.uc.GetBalance(ctx, account)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("balance = %s, want 1000.00", balance)
	}

	if _, err := f.journalRepo.GetEntry(ctx, result.Entry.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("entry still present after reversal")
	}
}

func TestUpdateBalanceRejectsControl(t *testing.T) {
	f := newLedgerFixture()
	tx, _ := f.txManager.Begin(context.Background())

	control := mocks.Controls().Income
	_, err := f.uc.UpdateBalance(context.Background(), tx, controlAsBalanceAccount{control}, decimal.NewFromInt(1), 1)
	if !errors.Is(err, domain.ErrBalanceNotSupported) {
		t.Errorf("err = %v, want %v", err, domain.ErrBalanceNotSupported)
	}
}

// controlAsBalanceAccount force-feeds a control account into the balance
// primitive to exercise the kind allow-list.
type controlAsBalanceAccount struct {
	c *domain.ControlAccount
}

func (a controlAsBalanceAccount) Ref() domain.AccountRef   { return a.c.Ref() }
func (a controlAsBalanceAccount) Opening() decimal.Decimal { return decimal.Zero }

func TestGetBalanceFallsBackToOpening(t *testing.T) {
	f := newLedgerFixture()
	account := f.seedBank(1, "250.00")

	balance, err := f.uc.GetBalance(context.Background(), account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("balance = %s, want 250.00", balance)
	}
}
