package repository

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-service/internal/database"
	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// WithTx returns a copy of the repository bound to the given
	// transaction, so every statement of one request shares one scope.
	WithTx(q database.DBTX) CategoryRepository
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, filters CategoryFilters, page, limit int) ([]*domain.Category, int, error)
}

type categoryRepository struct {
	q database.DBTX
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(q database.DBTX) CategoryRepository {
	return &categoryRepository{q: q}
}

func (r *categoryRepository) WithTx(q database.DBTX) CategoryRepository {
	return &categoryRepository{q: q}
}

// Create inserts a new category into the database using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, description, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.Slug,
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// Update writes the full row of an existing category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, slug = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.Slug,
		category.IsActive,
		category.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category. Products referencing it keep existing: the
// category_id foreign key is declared ON DELETE SET NULL, so the storage
// layer clears the back-reference.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, description, slug, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Slug,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// List retrieves one page of categories and the total count of the
// filtered set. Ordering is fixed to name ascending.
func (r *categoryRepository) List(ctx context.Context, filters CategoryFilters, page, limit int) ([]*domain.Category, int, error) {
	predicates := categoryPredicates(filters)
	whereClause := predicates.whereClause()

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM categories %s", whereClause)
	var total int
	err := r.q.QueryRowContext(ctx, countQuery, predicates.args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT id, name, description, slug, is_active, created_at, updated_at
		FROM categories
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, predicates.nextIndex(), predicates.nextIndex()+1)

	args := append(predicates.args, limit, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Slug,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}
