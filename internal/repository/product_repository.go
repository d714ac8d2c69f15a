package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"catalog-service/internal/database"
	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

const productColumns = `id, name, description, slug, sku, price, compare_at_price, cost_price,
		quantity, low_stock_threshold, is_active, is_featured, weight, image_url, tags,
		category_id, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// WithTx returns a copy of the repository bound to the given
	// transaction, so every statement of one request shares one scope.
	WithTx(q database.DBTX) ProductRepository
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, filters ProductFilters, page, limit int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error
}

type productRepository struct {
	q database.DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(q database.DBTX) ProductRepository {
	return &productRepository{q: q}
}

func (r *productRepository) WithTx(q database.DBTX) ProductRepository {
	return &productRepository{q: q}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, slug, sku, price, compare_at_price,
			cost_price, quantity, low_stock_threshold, is_active, is_featured, weight,
			image_url, tags, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Slug,
		product.SKU,
		product.Price,
		product.CompareAtPrice,
		product.CostPrice,
		product.Quantity,
		product.LowStockThreshold,
		product.IsActive,
		product.IsFeatured,
		product.Weight,
		product.ImageURL,
		product.Tags,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return productConflict(err)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// productConflict picks the conflict sentinel by the violated constraint.
// Both sku and slug carry unique indexes, and a duplicate name collides on
// slug even when the SKU is new.
func productConflict(err error) error {
	if IsUniqueViolationOn(err, "slug") {
		return ErrProductSlugAlreadyExists
	}
	return ErrProductAlreadyExists
}

// Update writes the full row of an existing product. The SKU column is
// deliberately absent from the SET list: it is immutable once assigned.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, slug = $4, price = $5, compare_at_price = $6,
		    cost_price = $7, quantity = $8, low_stock_threshold = $9, is_active = $10,
		    is_featured = $11, weight = $12, image_url = $13, tags = $14,
		    category_id = $15, updated_at = $16
		WHERE id = $1
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Slug,
		product.Price,
		product.CompareAtPrice,
		product.CostPrice,
		product.Quantity,
		product.LowStockThreshold,
		product.IsActive,
		product.IsFeatured,
		product.Weight,
		product.ImageURL,
		product.Tags,
		product.CategoryID,
		product.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return productConflict(err)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindBySKU retrieves a product by its SKU, used by the duplicate check
// on the create path.
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = $1`, productColumns)
	return r.scanOne(r.q.QueryRowContext(ctx, query, sku))
}

// List retrieves one page of products and the total count of the filtered
// set. Count and page share the same predicates; rows with equal sort keys
// fall back to id ascending so the order is stable.
func (r *productRepository) List(ctx context.Context, filters ProductFilters, page, limit int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Whitelist the sort column to prevent SQL injection
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
		"quantity":   true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	predicates := productPredicates(filters)
	whereClause := predicates.whereClause()

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	err := r.q.QueryRowContext(ctx, countQuery, predicates.args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortBy, sortOrder, predicates.nextIndex(), predicates.nextIndex()+1)

	args := append(predicates.args, limit, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// SetQuantity assigns the stock level directly, bypassing the general
// update path.
func (r *productRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error {
	query := `UPDATE products SET quantity = $2, updated_at = $3 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, quantity, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to set product quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *productRepository) scanOne(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	if err := scanProduct(row, product); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func scanProduct(row rowScanner, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Slug,
		&product.SKU,
		&product.Price,
		&product.CompareAtPrice,
		&product.CostPrice,
		&product.Quantity,
		&product.LowStockThreshold,
		&product.IsActive,
		&product.IsFeatured,
		&product.Weight,
		&product.ImageURL,
		&product.Tags,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
