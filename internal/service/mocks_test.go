package service

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/database"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubTxRunner runs the unit of work without a real transaction.
type stubTxRunner struct{}

func (stubTxRunner) WithinTx(ctx context.Context, fn func(q database.DBTX) error) error {
	return fn(nil)
}

// commitConflictTxRunner simulates the race where a unique violation only
// surfaces when the transaction commits. The zero value reports no
// constraint name, like a driver that omits it.
type commitConflictTxRunner struct {
	constraint string
}

func (r commitConflictTxRunner) WithinTx(ctx context.Context, fn func(q database.DBTX) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	return fmt.Errorf("failed to commit transaction: %w",
		&pgconn.PgError{Code: "23505", ConstraintName: r.constraint})
}

// Mock repositories for testing

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) WithTx(q database.DBTX) repository.CategoryRepository {
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name || existing.Slug == category.Slug {
			return repository.ErrCategoryAlreadyExists
		}
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, filters repository.CategoryFilters, page, limit int) ([]*domain.Category, int, error) {
	wantActive := true
	if filters.IsActive != nil {
		wantActive = *filters.IsActive
	}

	matched := []*domain.Category{}
	for _, c := range m.categories {
		if c.IsActive == wantActive {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) WithTx(q database.DBTX) repository.ProductRepository {
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, existing := range m.products {
		if existing.SKU == product.SKU {
			return repository.ErrProductAlreadyExists
		}
		if existing.Slug == product.Slug {
			return repository.ErrProductSlugAlreadyExists
		}
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.SKU == sku {
			copied := *product
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, filters repository.ProductFilters, page, limit int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	wantActive := true
	if filters.IsActive != nil {
		wantActive = *filters.IsActive
	}

	matched := []*domain.Product{}
	for _, p := range m.products {
		if p.IsActive == wantActive {
			copied := *p
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

func (m *mockProductRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error {
	product, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Quantity = quantity
	product.UpdatedAt = &updatedAt
	return nil
}
