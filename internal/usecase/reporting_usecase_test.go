package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
	"github.com/fintrackhq/fintrack/internal/usecase/mocks"
)

func TestCashflowWindow(t *testing.T) {
	reportRepo := &mocks.MockReportingRepository{}
	var windows [][2]time.Time
	reportRepo.IncomeExpenseTotalsFunc = func(ctx context.Context, userID int64, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
		windows = append(windows, [2]time.Time{start, end})
		return decimal.NewFromInt(1000), decimal.NewFromInt(400), nil
	}

	uc := usecase.NewReportingUseCase(reportRepo, mocks.NewMockBankAccountRepository(), mocks.NewMockBalanceRepository(), nil)

	out, err := uc.Cashflow(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("cashflow: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("months = %d, want 3", len(out))
	}

	for _, m := range out {
		if !m.Net.Equal(decimal.NewFromInt(600)) {
			t.Errorf("net = %s, want 600", m.Net)
		}
	}

	// Windows are calendar months, oldest first, each [start, start+1mo).
	for i, w := range windows {
		if !w[1].Equal(w[0].AddDate(0, 1, 0)) {
			t.Errorf("window %d end = %s, want one month after start", i, w[1])
		}
		if i > 0 && !w[0].Equal(windows[i-1][1]) {
			t.Errorf("window %d does not abut previous window", i)
		}
	}
}

func TestNetWorthTrendDualPath(t *testing.T) {
	reportRepo := &mocks.MockReportingRepository{}
	reportRepo.BankOpeningTotalFunc = func(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
		return decimal.NewFromInt(1000), nil
	}
	reportRepo.BankPostingTotalFunc = func(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
		return decimal.NewFromInt(250), nil
	}

	bankRepo := mocks.NewMockBankAccountRepository()
	account := bankRepo.Seed(&domain.BankAccount{
		UserID:         1,
		Name:           "Checking",
		OpeningBalance: decimal.NewFromInt(1000),
		Status:         domain.AccountStatusActive,
	})

	balanceRepo := mocks.NewMockBalanceRepository()
	tx := &mocks.MockTransaction{}
	if err := balanceRepo.Put(context.Background(), tx, &domain.AccountBalance{
		Account:       account.Ref(),
		BalanceAmount: decimal.NewFromInt(1700),
		UpdatedAt:     time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	uc := usecase.NewReportingUseCase(reportRepo, bankRepo, balanceRepo, nil)

	out, err := uc.NetWorthTrend(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("points = %d, want 3", len(out))
	}

	// Historical months replay postings: 1000 + 250.
	for _, p := range out[:2] {
		if !p.Total.Equal(decimal.NewFromInt(1250)) {
			t.Errorf("historical total = %s, want 1250", p.Total)
		}
	}

	// Current month reads the materialized balance.
	if !out[2].Total.Equal(decimal.NewFromInt(1700)) {
		t.Errorf("current total = %s, want 1700", out[2].Total)
	}
}

func TestExpenseBreakdownUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)

	cached, _ := json.Marshal([]usecase.CategoryTotal{
		{Name: "Groceries", Color: "#00aa00", Total: decimal.NewFromInt(1200)},
	})
	cache.EXPECT().Get(gomock.Any(), "report:expenses:1:30").Return(cached, nil)

	reportRepo := &mocks.MockReportingRepository{}
	reportRepo.ExpenseByCategoryFunc = func(ctx context.Context, userID int64, start time.Time) ([]usecase.CategoryTotal, error) {
		t.Fatal("repository hit despite cache")
		return nil, nil
	}

	uc := usecase.NewReportingUseCase(reportRepo, mocks.NewMockBankAccountRepository(), mocks.NewMockBalanceRepository(), cache)

	out, err := uc.ExpenseBreakdown(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	if len(out) != 1 || out[0].Name != "Groceries" {
		t.Errorf("out = %+v, want cached groceries row", out)
	}
}

func TestExpenseBreakdownCacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "report:expenses:1:30").Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), "report:expenses:1:30", gomock.Any(), gomock.Any()).Return(nil)

	reportRepo := &mocks.MockReportingRepository{}
	reportRepo.ExpenseByCategoryFunc = func(ctx context.Context, userID int64, start time.Time) ([]usecase.CategoryTotal, error) {
		return []usecase.CategoryTotal{{Name: "Travel", Total: decimal.NewFromInt(800)}}, nil
	}

	uc := usecase.NewReportingUseCase(reportRepo, mocks.NewMockBankAccountRepository(), mocks.NewMockBalanceRepository(), cache)

	out, err := uc.ExpenseBreakdown(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	if len(out) != 1 || out[0].Name != "Travel" {
		t.Errorf("out = %+v", out)
	}
}
