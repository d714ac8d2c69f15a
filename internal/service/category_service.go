package service

import (
	"context"
	"time"
	"unicode/utf8"

	"catalog-service/internal/database"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
)

const maxCategoryNameLength = 100

// CreateCategoryInput carries the fields of a category create request.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context, filters repository.CategoryFilters, page, limit int) ([]*domain.Category, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	tx         database.TxRunner
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, tx database.TxRunner) CategoryService {
	return &categoryService{
		categories: categories,
		tx:         tx,
	}
}

// List returns one page of categories and the total of the filtered set.
func (s *categoryService) List(ctx context.Context, filters repository.CategoryFilters, page, limit int) ([]*domain.Category, int, error) {
	var (
		items []*domain.Category
		total int
	)

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		var err error
		items, total, err = s.categories.WithTx(q).List(ctx, filters, page, limit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category *domain.Category

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		var err error
		category, err = s.categories.WithTx(q).FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Create validates the input, derives the slug from the name and inserts
// the new category.
func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := validateCategoryName(input.Name); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Slug:        domain.Slugify(input.Name),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		return s.categories.WithTx(q).Create(ctx, category)
	})
	if err != nil {
		return nil, translateCategoryConflict(err)
	}

	return category, nil
}

// Update applies a partial patch: only fields the caller supplied change,
// and a new name recomputes the slug.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) (*domain.Category, error) {
	if err := validateCategoryPatch(patch); err != nil {
		return nil, err
	}

	var category *domain.Category

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		repo := s.categories.WithTx(q)

		var err error
		category, err = repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Name.Present() {
			category.Name = patch.Name.Value
			category.Slug = domain.Slugify(patch.Name.Value)
		}
		if patch.Description.Set {
			if patch.Description.Null {
				category.Description = nil
			} else {
				category.Description = &patch.Description.Value
			}
		}
		if patch.IsActive.Present() {
			category.IsActive = patch.IsActive.Value
		}

		now := time.Now().UTC()
		category.UpdatedAt = &now

		return repo.Update(ctx, category)
	})
	if err != nil {
		return nil, translateCategoryConflict(err)
	}

	return category, nil
}

// Delete hard-deletes the category. The products foreign key is declared
// ON DELETE SET NULL, so referencing products survive with a cleared
// back-reference.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(q database.DBTX) error {
		return s.categories.WithTx(q).Delete(ctx, id)
	})
}

func validateCategoryName(name string) error {
	if name == "" {
		return invalidField("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return invalidField("name", "name must be at most 100 characters")
	}
	if domain.Slugify(name) == "" {
		return invalidField("name", "name must contain at least one letter or digit")
	}
	return nil
}

func validateCategoryPatch(patch domain.CategoryPatch) error {
	if patch.Name.Null {
		return invalidField("name", "name cannot be null")
	}
	if patch.Name.Present() {
		if err := validateCategoryName(patch.Name.Value); err != nil {
			return err
		}
	}
	if patch.IsActive.Null {
		return invalidField("is_active", "is_active cannot be null")
	}
	return nil
}

// translateCategoryConflict maps a unique violation that raced past the
// statement-level checks (surfacing at commit) to the same conflict
// outcome as the direct path.
func translateCategoryConflict(err error) error {
	if repository.IsUniqueViolation(err) {
		return repository.ErrCategoryAlreadyExists
	}
	return err
}
