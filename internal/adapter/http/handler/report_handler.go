package handler

import (
	"context"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Cashflow(ctx context.Context, userID int64, months int) ([]usecase.MonthCashflow, error)
	ExpenseBreakdown(ctx context.Context, userID int64, days int) ([]usecase.CategoryTotal, error)
	NetWorthTrend(ctx context.Context, userID int64, months int) ([]usecase.NetWorthPoint, error)
}

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Cashflow returns per-month income, expense and net totals.
func (h *ReportHandler) Cashflow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	months := parseIntQuery(r, "months", 6)
	rows, err := h.reportUC.Cashflow(r.Context(), user.ID, months)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build cashflow report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// Expenses returns the expense breakdown by category.
func (h *ReportHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	days := parseIntQuery(r, "days", 30)
	rows, err := h.reportUC.ExpenseBreakdown(r.Context(), user.ID, days)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build expense report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// NetWorth returns the month-end bank total trend.
func (h *ReportHandler) NetWorth(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	months := parseIntQuery(r, "months", 6)
	rows, err := h.reportUC.NetWorthTrend(r.Context(), user.ID, months)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build net worth report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
