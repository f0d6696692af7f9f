package handler

import (
	"context"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/adapter/http/dto"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// BankAccountService defines the behavior needed by AccountHandler.
type BankAccountService interface {
	CreateBankAccount(ctx context.Context, input usecase.CreateBankAccountInput) (*usecase.BankAccountView, error)
	GetBankAccount(ctx context.Context, userID, id int64) (*usecase.BankAccountView, error)
	ListBankAccounts(ctx context.Context, userID int64, includeArchived bool) ([]*usecase.BankAccountView, error)
	UpdateBankAccount(ctx context.Context, input usecase.UpdateBankAccountInput) (*usecase.BankAccountView, error)
	ArchiveBankAccount(ctx context.Context, userID, id int64) error
	ActivateBankAccount(ctx context.Context, userID, id int64) error
}

// AccountHandler handles bank account HTTP requests.
type AccountHandler struct {
	accountUC BankAccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC BankAccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new bank account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateBankAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	view, err := h.accountUC.CreateBankAccount(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromView(view))
}

// Get retrieves a bank account with its current balance.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.accountUC.GetBankAccount(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountFromView(view))
}

// List lists the user's bank accounts. Archived accounts are included
// only with ?include_archived=true.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.accountUC.ListBankAccounts(r.Context(), user.ID, parseBoolQuery(r, "include_archived"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.BankAccountResponse]{
		Items: dto.BankAccountsFromViews(views),
		Total: int64(len(views)),
	})
}

// Update edits a bank account's descriptive fields.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateBankAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	view, err := h.accountUC.UpdateBankAccount(r.Context(), req.ToUseCaseInput(user.ID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountFromView(view))
}

// Archive retires a bank account; history stays, new postings are
// rejected.
func (h *AccountHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.accountUC.ArchiveBankAccount)
}

// Activate restores an archived bank account.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.accountUC.ActivateBankAccount)
}

func (h *AccountHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) error) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), user.ID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to change account status", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
