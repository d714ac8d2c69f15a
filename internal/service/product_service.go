package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"catalog-service/internal/database"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength = 200
	maxSKULength         = 50
)

// CreateProductInput carries the fields of a product create request.
type CreateProductInput struct {
	Name              string
	Description       *string
	SKU               string
	Price             decimal.Decimal
	CompareAtPrice    *decimal.Decimal
	CostPrice         *decimal.Decimal
	Quantity          int
	LowStockThreshold int
	IsActive          bool
	IsFeatured        bool
	Weight            *float64
	ImageURL          *string
	Tags              *string
	CategoryID        *uuid.UUID
}

// ProductDetail is a product snapshot together with its category, when
// the product references one.
type ProductDetail struct {
	Product  *domain.Product
	Category *domain.Category
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filters repository.ProductFilters, page, limit int, sortBy string, sortOrder repository.SortOrder) ([]ProductDetail, int, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDetail, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*ProductDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (*ProductDetail, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tx         database.TxRunner
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tx database.TxRunner,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		tx:         tx,
	}
}

// List returns one page of products, each with its category resolved,
// and the total of the filtered set.
func (s *productService) List(ctx context.Context, filters repository.ProductFilters, page, limit int, sortBy string, sortOrder repository.SortOrder) ([]ProductDetail, int, error) {
	var (
		details []ProductDetail
		total   int
	)

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		products, count, err := s.products.WithTx(q).List(ctx, filters, page, limit, sortBy, sortOrder)
		if err != nil {
			return err
		}
		total = count

		categoriesByID, err := s.resolveCategories(ctx, s.categories.WithTx(q), products)
		if err != nil {
			return err
		}

		details = make([]ProductDetail, 0, len(products))
		for _, p := range products {
			detail := ProductDetail{Product: p}
			if p.CategoryID != nil {
				detail.Category = categoriesByID[*p.CategoryID]
			}
			details = append(details, detail)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	var detail *ProductDetail

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		product, err := s.products.WithTx(q).FindByID(ctx, id)
		if err != nil {
			return err
		}

		detail = &ProductDetail{Product: product}
		detail.Category, err = s.categoryOf(ctx, s.categories.WithTx(q), product)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// Create validates the input, derives the slug, checks SKU uniqueness and
// inserts the product. The duplicate pre-check and the insert are two
// statements in one transaction; a concurrent create racing past the check
// surfaces as a unique violation, which is translated to the same conflict.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:                uuid.New(),
		Name:              input.Name,
		Description:       input.Description,
		Slug:              domain.Slugify(input.Name),
		SKU:               input.SKU,
		Price:             input.Price.Round(2),
		CompareAtPrice:    roundPtr(input.CompareAtPrice),
		CostPrice:         roundPtr(input.CostPrice),
		Quantity:          input.Quantity,
		LowStockThreshold: input.LowStockThreshold,
		IsActive:          input.IsActive,
		IsFeatured:        input.IsFeatured,
		Weight:            input.Weight,
		ImageURL:          input.ImageURL,
		Tags:              input.Tags,
		CategoryID:        input.CategoryID,
		CreatedAt:         time.Now().UTC(),
	}

	var detail *ProductDetail

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		repo := s.products.WithTx(q)

		_, err := repo.FindBySKU(ctx, product.SKU)
		if err == nil {
			return repository.ErrProductAlreadyExists
		}
		if !errors.Is(err, repository.ErrProductNotFound) {
			return err
		}

		if err := repo.Create(ctx, product); err != nil {
			return err
		}

		detail = &ProductDetail{Product: product}
		detail.Category, err = s.categoryOf(ctx, s.categories.WithTx(q), product)
		return err
	})
	if err != nil {
		return nil, translateProductConflict(err)
	}

	return detail, nil
}

// Update applies a partial patch: only fields the caller supplied change,
// a new name recomputes the slug, and the SKU is never touched.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*ProductDetail, error) {
	if err := validateProductPatch(patch); err != nil {
		return nil, err
	}

	var detail *ProductDetail

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		repo := s.products.WithTx(q)

		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		applyProductPatch(product, patch)

		now := time.Now().UTC()
		product.UpdatedAt = &now

		if err := repo.Update(ctx, product); err != nil {
			return err
		}

		detail = &ProductDetail{Product: product}
		detail.Category, err = s.categoryOf(ctx, s.categories.WithTx(q), product)
		return err
	})
	if err != nil {
		return nil, translateProductConflict(err)
	}

	return detail, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(q database.DBTX) error {
		return s.products.WithTx(q).Delete(ctx, id)
	})
}

// SetStock assigns the quantity directly, bypassing the general update
// path. Negative quantities are rejected so the quantity >= 0 invariant
// holds uniformly across the whole API.
func (s *productService) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*ProductDetail, error) {
	if quantity < 0 {
		return nil, invalidField("quantity", "quantity must be non-negative")
	}

	var detail *ProductDetail

	err := s.tx.WithinTx(ctx, func(q database.DBTX) error {
		repo := s.products.WithTx(q)

		if err := repo.SetQuantity(ctx, id, quantity, time.Now().UTC()); err != nil {
			return err
		}

		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		detail = &ProductDetail{Product: product}
		detail.Category, err = s.categoryOf(ctx, s.categories.WithTx(q), product)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// categoryOf fetches the product's category within the same transaction,
// or nil when the product references none.
func (s *productService) categoryOf(ctx context.Context, categories repository.CategoryRepository, product *domain.Product) (*domain.Category, error) {
	if product.CategoryID == nil {
		return nil, nil
	}

	category, err := categories.FindByID(ctx, *product.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// resolveCategories fetches each distinct category referenced by the page
// of products, inside the list query's transaction.
func (s *productService) resolveCategories(ctx context.Context, categories repository.CategoryRepository, products []*domain.Product) (map[uuid.UUID]*domain.Category, error) {
	byID := make(map[uuid.UUID]*domain.Category)

	for _, p := range products {
		if p.CategoryID == nil {
			continue
		}
		if _, seen := byID[*p.CategoryID]; seen {
			continue
		}

		category, err := categories.FindByID(ctx, *p.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				continue
			}
			return nil, err
		}
		byID[*p.CategoryID] = category
	}

	return byID, nil
}

func validateProductInput(input *CreateProductInput) error {
	if input.Name == "" {
		return invalidField("name", "name is required")
	}
	if utf8.RuneCountInString(input.Name) > maxProductNameLength {
		return invalidField("name", "name must be at most 200 characters")
	}
	if domain.Slugify(input.Name) == "" {
		return invalidField("name", "name must contain at least one letter or digit")
	}
	if input.SKU == "" {
		return invalidField("sku", "sku is required")
	}
	if utf8.RuneCountInString(input.SKU) > maxSKULength {
		return invalidField("sku", "sku must be at most 50 characters")
	}
	if input.Price.IsNegative() {
		return invalidField("price", "price must be non-negative")
	}
	if input.CompareAtPrice != nil && input.CompareAtPrice.IsNegative() {
		return invalidField("compare_at_price", "compare_at_price must be non-negative")
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return invalidField("cost_price", "cost_price must be non-negative")
	}
	if input.Quantity < 0 {
		return invalidField("quantity", "quantity must be non-negative")
	}
	if input.LowStockThreshold < 0 {
		return invalidField("low_stock_threshold", "low_stock_threshold must be non-negative")
	}
	return nil
}

func validateProductPatch(patch domain.ProductPatch) error {
	if patch.Name.Null {
		return invalidField("name", "name cannot be null")
	}
	if patch.Name.Present() {
		if patch.Name.Value == "" {
			return invalidField("name", "name cannot be empty")
		}
		if utf8.RuneCountInString(patch.Name.Value) > maxProductNameLength {
			return invalidField("name", "name must be at most 200 characters")
		}
		if domain.Slugify(patch.Name.Value) == "" {
			return invalidField("name", "name must contain at least one letter or digit")
		}
	}
	if patch.Price.Null {
		return invalidField("price", "price cannot be null")
	}
	if patch.Price.Present() && patch.Price.Value.IsNegative() {
		return invalidField("price", "price must be non-negative")
	}
	if patch.CompareAtPrice.Present() && patch.CompareAtPrice.Value.IsNegative() {
		return invalidField("compare_at_price", "compare_at_price must be non-negative")
	}
	if patch.CostPrice.Present() && patch.CostPrice.Value.IsNegative() {
		return invalidField("cost_price", "cost_price must be non-negative")
	}
	if patch.Quantity.Null {
		return invalidField("quantity", "quantity cannot be null")
	}
	if patch.Quantity.Present() && patch.Quantity.Value < 0 {
		return invalidField("quantity", "quantity must be non-negative")
	}
	if patch.LowStockThreshold.Null {
		return invalidField("low_stock_threshold", "low_stock_threshold cannot be null")
	}
	if patch.LowStockThreshold.Present() && patch.LowStockThreshold.Value < 0 {
		return invalidField("low_stock_threshold", "low_stock_threshold must be non-negative")
	}
	if patch.IsActive.Null {
		return invalidField("is_active", "is_active cannot be null")
	}
	if patch.IsFeatured.Null {
		return invalidField("is_featured", "is_featured cannot be null")
	}
	return nil
}

// applyProductPatch copies every supplied field onto the entity. Fields
// the caller omitted are never touched; nullable fields set to an
// explicit null are cleared.
func applyProductPatch(product *domain.Product, patch domain.ProductPatch) {
	if patch.Name.Present() {
		product.Name = patch.Name.Value
		product.Slug = domain.Slugify(patch.Name.Value)
	}
	if patch.Description.Set {
		if patch.Description.Null {
			product.Description = nil
		} else {
			product.Description = &patch.Description.Value
		}
	}
	if patch.Price.Present() {
		product.Price = patch.Price.Value.Round(2)
	}
	if patch.CompareAtPrice.Set {
		if patch.CompareAtPrice.Null {
			product.CompareAtPrice = nil
		} else {
			rounded := patch.CompareAtPrice.Value.Round(2)
			product.CompareAtPrice = &rounded
		}
	}
	if patch.CostPrice.Set {
		if patch.CostPrice.Null {
			product.CostPrice = nil
		} else {
			rounded := patch.CostPrice.Value.Round(2)
			product.CostPrice = &rounded
		}
	}
	if patch.Quantity.Present() {
		product.Quantity = patch.Quantity.Value
	}
	if patch.LowStockThreshold.Present() {
		product.LowStockThreshold = patch.LowStockThreshold.Value
	}
	if patch.IsActive.Present() {
		product.IsActive = patch.IsActive.Value
	}
	if patch.IsFeatured.Present() {
		product.IsFeatured = patch.IsFeatured.Value
	}
	if patch.Weight.Set {
		if patch.Weight.Null {
			product.Weight = nil
		} else {
			product.Weight = &patch.Weight.Value
		}
	}
	if patch.ImageURL.Set {
		if patch.ImageURL.Null {
			product.ImageURL = nil
		} else {
			product.ImageURL = &patch.ImageURL.Value
		}
	}
	if patch.Tags.Set {
		if patch.Tags.Null {
			product.Tags = nil
		} else {
			product.Tags = &patch.Tags.Value
		}
	}
	if patch.CategoryID.Set {
		if patch.CategoryID.Null {
			product.CategoryID = nil
		} else {
			product.CategoryID = &patch.CategoryID.Value
		}
	}
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	rounded := d.Round(2)
	return &rounded
}

func translateProductConflict(err error) error {
	if repository.IsUniqueViolation(err) {
		if repository.IsUniqueViolationOn(err, "slug") {
			return repository.ErrProductSlugAlreadyExists
		}
		return repository.ErrProductAlreadyExists
	}
	return err
}
