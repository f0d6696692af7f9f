package usecase

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/domain"
)

// CategoryUseCase manages a user's transaction categories.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	UserID int64
	Name   string
	Kind   domain.TransactionKind
	Color  string
}

// CreateCategory creates a category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}

	if err := domain.ValidateColor(input.Color); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		UserID:    input.UserID,
		Name:      input.Name,
		Kind:      input.Kind,
		Color:     input.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves one category.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	return uc.categoryRepo.GetForUser(ctx, userID, id)
}

// ListCategories lists a user's categories.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, userID int64) ([]*domain.Category, error) {
	return uc.categoryRepo.ListByUser(ctx, userID)
}

// UpdateCategoryInput represents input for editing a category. The kind
// is immutable so existing transactions keep matching.
type UpdateCategoryInput struct {
	UserID int64
	ID     int64
	Name   string
	Color  string
}

// UpdateCategory edits a category's name and color.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateColor(input.Color); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetForUser(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Color = input.Color
	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Transactions referencing it keep
// their history with the category link cleared by the storage layer.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, userID, id int64) error {
	return uc.categoryRepo.Delete(ctx, userID, id)
}
