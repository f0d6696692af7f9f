package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

// ReportingUseCase builds the dashboard aggregates. Historical figures
// replay posting history directly rather than trusting the materialized
// balances; only the current point in a trend uses the live balance.
type ReportingUseCase struct {
	reportRepo  ReportingRepository
	bankRepo    BankAccountRepository
	balanceRepo BalanceRepository
	cache       Cache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
}

// NewReportingUseCase creates a new ReportingUseCase. Cache may be nil.
func NewReportingUseCase(
	reportRepo ReportingRepository,
	bankRepo BankAccountRepository,
	balanceRepo BalanceRepository,
	cache Cache,
) *ReportingUseCase {
	return &ReportingUseCase{
		reportRepo:  reportRepo,
		bankRepo:    bankRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		cacheTTL:    15 * time.Minute,
	}
}

// WithMetrics enables cache instrumentation.
func (uc *ReportingUseCase) WithMetrics(m *metrics.Metrics) *ReportingUseCase {
	uc.metrics = m
	return uc
}

// MonthCashflow is one month of income versus expense.
type MonthCashflow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Cashflow returns per-month income, expense and net for the trailing
// months window, oldest first.
func (uc *ReportingUseCase) Cashflow(ctx context.Context, userID int64, months int) ([]MonthCashflow, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	key := fmt.Sprintf("report:cashflow:%d:%d", userID, months)
	if cached, ok := uc.fromCache(ctx, key, new([]MonthCashflow)); ok {
		return *cached.(*[]MonthCashflow), nil
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]MonthCashflow, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		income, expense, err := uc.reportRepo.IncomeExpenseTotals(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}

		out = append(out, MonthCashflow{
			Month:   start.Format("2006-01"),
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		})
	}

	uc.toCache(ctx, key, out)
	return out, nil
}

// ExpenseBreakdown groups live expenses since the given number of days
// ago by category.
func (uc *ReportingUseCase) ExpenseBreakdown(ctx context.Context, userID int64, days int) ([]CategoryTotal, error) {
	if days <= 0 {
		days = 30
	}

	key := fmt.Sprintf("report:expenses:%d:%d", userID, days)
	if cached, ok := uc.fromCache(ctx, key, new([]CategoryTotal)); ok {
		return *cached.(*[]CategoryTotal), nil
	}

	start := time.Now().UTC().AddDate(0, 0, -days)
	totals, err := uc.reportRepo.ExpenseByCategory(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, key, totals)
	return totals, nil
}

// NetWorthPoint is one month-end snapshot of bank holdings.
type NetWorthPoint struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// NetWorthTrend returns month-end bank totals for the trailing months
// window, oldest first. Past months are reconstructed from posting
// history with an inclusive month-end cutoff; the current month reads
// the materialized balances.
func (uc *ReportingUseCase) NetWorthTrend(ctx context.Context, userID int64, months int) ([]NetWorthPoint, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	key := fmt.Sprintf("report:networth:%d:%d", userID, months)
	if cached, ok := uc.fromCache(ctx, key, new([]NetWorthPoint)); ok {
		return *cached.(*[]NetWorthPoint), nil
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]NetWorthPoint, 0, months)
	for i := months - 1; i >= 1; i-- {
		monthStart := first.AddDate(0, -i, 0)
		cutoff := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

		opening, err := uc.reportRepo.BankOpeningTotal(ctx, userID, cutoff)
		if err != nil {
			return nil, err
		}

		posted, err := uc.reportRepo.BankPostingTotal(ctx, userID, cutoff)
		if err != nil {
			return nil, err
		}

		out = append(out, NetWorthPoint{
			Month: monthStart.Format("2006-01"),
			Total: opening.Add(posted),
		})
	}

	current, err := uc.currentBankTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	out = append(out, NetWorthPoint{Month: first.Format("2006-01"), Total: current})

	uc.toCache(ctx, key, out)
	return out, nil
}

func (uc *ReportingUseCase) currentBankTotal(ctx context.Context, userID int64) (decimal.Decimal, error) {
	accounts, err := uc.bankRepo.ListByUser(ctx, userID, false)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, account := range accounts {
		balance, err := uc.balanceRepo.Get(ctx, account.Ref())
		if err != nil {
			total = total.Add(account.OpeningBalance)
			continue
		}
		total = total.Add(balance.BalanceAmount)
	}

	return total, nil
}

func (uc *ReportingUseCase) fromCache(ctx context.Context, key string, target any) (any, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil || data == nil {
		uc.countCache(false)
		return nil, false
	}

	if err := json.Unmarshal(data, target); err != nil {
		uc.countCache(false)
		return nil, false
	}

	uc.countCache(true)
	return target, true
}

func (uc *ReportingUseCase) countCache(hit bool) {
	if uc.metrics == nil {
		return
	}
	if hit {
		uc.metrics.ReportCacheHits.Inc()
	} else {
		uc.metrics.ReportCacheMisses.Inc()
	}
}

func (uc *ReportingUseCase) toCache(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	// Cache write failures are not fatal.
	_ = uc.cache.Set(ctx, key, data, uc.cacheTTL)
}
