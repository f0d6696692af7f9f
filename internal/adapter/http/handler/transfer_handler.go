package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrackhq/fintrack/internal/adapter/http/dto"
	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*usecase.TransferResult, error)
	UpdateTransfer(ctx context.Context, input usecase.UpdateTransferInput) (*usecase.TransferResult, error)
	DeleteTransfer(ctx context.Context, userID int64, id string) error
	GetTransfer(ctx context.Context, userID int64, id string) (*domain.Transfer, error)
	ListTransfers(ctx context.Context, input usecase.ListTransfersInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create records a transfer between two owned accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.transferUC.CreateTransfer(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferResultFromUseCase(result))
}

// Get retrieves a transfer.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	transfer, err := h.transferUC.GetTransfer(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists the user's live transfers, newest first.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	transfers, err := h.transferUC.ListTransfers(r.Context(), usecase.ListTransfersInput{
		UserID: user.ID,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.TransferResponse]{
		Items: dto.TransfersFromDomain(transfers),
		Total: int64(len(transfers)),
	})
}

// Update edits a transfer; the old journal entry is reversed and a
// fresh one posted, possibly against different accounts.
func (h *TransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.UpdateTransferRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.transferUC.UpdateTransfer(r.Context(), req.ToUseCaseInput(user.ID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferResultFromUseCase(result))
}

// Delete soft-deletes a transfer and restores both balances.
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.transferUC.DeleteTransfer(r.Context(), user.ID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transfer", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
