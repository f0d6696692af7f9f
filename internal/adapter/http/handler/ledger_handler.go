package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/adapter/http/dto"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Recalculate(ctx context.Context, input usecase.RecalculateInput) (*usecase.RecalculateReport, error)
}

// LedgerHandler exposes operational ledger endpoints. The router puts
// it behind the admin-only middleware.
type LedgerHandler struct {
	recalcUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(recalcUC LedgerService) *LedgerHandler {
	return &LedgerHandler{recalcUC: recalcUC}
}

// Recalculate replays posting history and repairs drifted balances.
// An empty body runs a full live repair.
func (h *LedgerHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req dto.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.recalcUC.Recalculate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "recalculation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateFromReport(report))
}
