package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/adapter/http/dto"
	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error)
	updateFn func(ctx context.Context, input usecase.UpdateTransactionInput) (*usecase.TransactionResult, error)
	deleteFn func(ctx context.Context, userID int64, id string) error
	getFn    func(ctx context.Context, userID int64, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*usecase.TransactionResult, error) {
	return s.updateFn(ctx, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, userID int64, id string) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, userID, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}

func sampleTransaction(id string) *domain.Transaction {
	return &domain.Transaction{
		ID:         id,
		UserID:     7,
		OccurredAt: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Kind:       domain.TransactionKindExpense,
		Amount:     decimal.RequireFromString("450.00"),
		Account:    domain.AccountRef{Kind: domain.AccountKindBank, ID: 1},
		Method:     "upi",
		Purpose:    "groceries",
	}
}

func TestTransactionHandlerCreateSuccess(t *testing.T) {
	var captured usecase.CreateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error) {
			captured = input
			return &usecase.TransactionResult{
				Transaction: sampleTransaction("txn-1"),
				Balance:     decimal.RequireFromString("550.00"),
			}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Kind:       "expense",
		Account:    dto.AccountRefRequest{Kind: "bank", ID: 1},
		Amount:     decimal.RequireFromString("450.00"),
		OccurredAt: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Method:     "upi",
		Purpose:    "groceries",
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), testUser())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != 7 || captured.Kind != domain.TransactionKindExpense {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if captured.Account.Kind != domain.AccountKindBank || captured.Account.ID != 1 {
		t.Fatalf("expected account ref to be forwarded, got %+v", captured.Account)
	}

	var resp dto.TransactionResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Transaction.ID != "txn-1" {
		t.Fatalf("expected transaction txn-1, got %s", resp.Transaction.ID)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("550.00")) {
		t.Fatalf("expected the fresh balance in the response, got %s", resp.Balance)
	}
}

func TestTransactionHandlerCreateRejectsBadKind(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error) {
			t.Fatal("CreateTransaction should not be called for an invalid kind")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Kind:       "transfer",
		Account:    dto.AccountRefRequest{Kind: "bank", ID: 1},
		Amount:     decimal.RequireFromString("10.00"),
		OccurredAt: time.Now(),
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), testUser())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandlerCreateArchivedAccount(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.TransactionResult, error) {
			return nil, domain.ErrAccountArchived
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Kind:       "expense",
		Account:    dto.AccountRefRequest{Kind: "bank", ID: 1},
		Amount:     decimal.RequireFromString("10.00"),
		OccurredAt: time.Now(),
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), testUser())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for archived account, got %d", rec.Code)
	}
}

func TestTransactionHandlerGet(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
			if id != "txn-1" {
				t.Fatalf("expected id txn-1, got %s", id)
			}
			return sampleTransaction(id), nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/transactions/txn-1", nil), testUser())
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransactionHandlerGetNotFound(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/transactions/missing", nil), testUser())
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandlerListPagination(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
			if input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("expected limit=5 offset=10, got %+v", input)
			}
			return []*domain.Transaction{sampleTransaction("a"), sampleTransaction("b")}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/transactions?limit=5&offset=10", nil), testUser())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListResponse[*dto.TransactionResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(resp.Items))
	}
}

func TestTransactionHandlerDelete(t *testing.T) {
	deleted := ""
	handler := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, userID int64, id string) error {
			deleted = id
			return nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodDelete, "/transactions/txn-1", nil), testUser())
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "txn-1" {
		t.Fatalf("expected txn-1 deleted, got %q", deleted)
	}
}
