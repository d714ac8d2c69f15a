package transport

import (
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"
)

// Pagination describes a bounded result window over a filtered set
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the pagination meta for one list response;
// pages is ceil(total/limit), or 0 for an empty set.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Slug        string     `json:"slug"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CategoryListResponse is the body of the category list endpoint
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Pagination Pagination         `json:"pagination"`
}

// ProductResponse represents a product in API responses; Category is the
// embedded category response, or null when the product references none.
type ProductResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       *string           `json:"description"`
	Slug              string            `json:"slug"`
	SKU               string            `json:"sku"`
	Price             float64           `json:"price"`
	CompareAtPrice    *float64          `json:"compare_at_price"`
	CostPrice         *float64          `json:"cost_price"`
	Quantity          int               `json:"quantity"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	IsActive          bool              `json:"is_active"`
	IsFeatured        bool              `json:"is_featured"`
	Weight            *float64          `json:"weight"`
	ImageURL          *string           `json:"image_url"`
	Tags              *string           `json:"tags"`
	CategoryID        *string           `json:"category_id"`
	Category          *CategoryResponse `json:"category"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at"`
}

// ProductListResponse is the body of the product list endpoint
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		Slug:        category.Slug,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toProductResponse(detail service.ProductDetail) ProductResponse {
	product := detail.Product

	resp := ProductResponse{
		ID:                product.ID.String(),
		Name:              product.Name,
		Description:       product.Description,
		Slug:              product.Slug,
		SKU:               product.SKU,
		Price:             product.Price.InexactFloat64(),
		Quantity:          product.Quantity,
		LowStockThreshold: product.LowStockThreshold,
		IsActive:          product.IsActive,
		IsFeatured:        product.IsFeatured,
		Weight:            product.Weight,
		ImageURL:          product.ImageURL,
		Tags:              product.Tags,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}

	if product.CompareAtPrice != nil {
		v := product.CompareAtPrice.InexactFloat64()
		resp.CompareAtPrice = &v
	}
	if product.CostPrice != nil {
		v := product.CostPrice.InexactFloat64()
		resp.CostPrice = &v
	}
	if product.CategoryID != nil {
		id := product.CategoryID.String()
		resp.CategoryID = &id
	}
	if detail.Category != nil {
		category := toCategoryResponse(detail.Category)
		resp.Category = &category
	}

	return resp
}
