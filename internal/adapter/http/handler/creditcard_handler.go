package handler

import (
	"context"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/adapter/http/dto"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// CreditCardService defines the behavior needed by CreditCardHandler.
type CreditCardService interface {
	CreateCreditCard(ctx context.Context, input usecase.CreateCreditCardInput) (*usecase.CreditCardView, error)
	GetCreditCard(ctx context.Context, userID, id int64) (*usecase.CreditCardView, error)
	ListCreditCards(ctx context.Context, userID int64, includeArchived bool) ([]*usecase.CreditCardView, error)
	UpdateCreditCard(ctx context.Context, input usecase.UpdateCreditCardInput) (*usecase.CreditCardView, error)
	ArchiveCreditCard(ctx context.Context, userID, id int64) error
	ActivateCreditCard(ctx context.Context, userID, id int64) error
}

// CreditCardHandler handles credit card HTTP requests.
type CreditCardHandler struct {
	cardUC CreditCardService
}

// NewCreditCardHandler creates a new CreditCardHandler.
func NewCreditCardHandler(cardUC CreditCardService) *CreditCardHandler {
	return &CreditCardHandler{cardUC: cardUC}
}

// Create creates a new credit card.
func (h *CreditCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateCreditCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	view, err := h.cardUC.CreateCreditCard(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create card", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreditCardFromView(view))
}

// Get retrieves a credit card with its balance and derived figures.
func (h *CreditCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.cardUC.GetCreditCard(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromView(view))
}

// List lists the user's credit cards.
func (h *CreditCardHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.cardUC.ListCreditCards(r.Context(), user.ID, parseBoolQuery(r, "include_archived"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list cards", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.CreditCardResponse]{
		Items: dto.CreditCardsFromViews(views),
		Total: int64(len(views)),
	})
}

// Update edits a credit card's descriptive fields and limits.
func (h *CreditCardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCreditCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	view, err := h.cardUC.UpdateCreditCard(r.Context(), req.ToUseCaseInput(user.ID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromView(view))
}

// Archive retires a credit card.
func (h *CreditCardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.cardUC.ArchiveCreditCard)
}

// Activate restores an archived credit card.
func (h *CreditCardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.cardUC.ActivateCreditCard)
}

func (h *CreditCardHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) error) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), user.ID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to change card status", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
