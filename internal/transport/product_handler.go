package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. Fields
// with server-side defaults are pointers so an omitted field is
// distinguishable from a zero value.
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required,max=200"`
	Description       *string  `json:"description"`
	SKU               string   `json:"sku" validate:"required,max=50"`
	Price             *float64 `json:"price" validate:"required,gte=0"`
	CompareAtPrice    *float64 `json:"compare_at_price" validate:"omitempty,gte=0"`
	CostPrice         *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	Quantity          *int     `json:"quantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	IsActive          *bool    `json:"is_active"`
	IsFeatured        *bool    `json:"is_featured"`
	Weight            *float64 `json:"weight"`
	ImageURL          *string  `json:"image_url"`
	Tags              *string  `json:"tags"`
	CategoryID        *string  `json:"category_id" validate:"omitempty,uuid"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/stock", h.SetStock)
	})
}

// List handles product listing with filtering, sorting and pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sortBy, sortOrder, err := parseProductSort(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters, err := h.parseFilters(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, total, err := h.productService.List(r.Context(), filters, page, limit, sortBy, sortOrder)
	if err != nil {
		h.respondError(w, err, "failed to list products")
		return
	}

	items := make([]ProductResponse, 0, len(details))
	for _, d := range details {
		items = append(items, toProductResponse(d))
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   items,
		Pagination: NewPagination(page, limit, total),
	})
}

// Get handles fetching a single product with its category
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	detail, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(*detail))
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product create validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.toCreateInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.productService.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", detail.Product.ID.String()),
		zap.String("sku", detail.Product.SKU),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(*detail))
}

// Update handles partial product updates; the SKU is not an accepted
// field and is silently absent from the patch type.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.productService.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(*detail))
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// SetStock handles the narrow stock assignment endpoint
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("quantity")
	if raw == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity query parameter is required")
		return
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}

	detail, err := h.productService.SetStock(r.Context(), id, quantity)
	if err != nil {
		h.respondError(w, err, "failed to set product stock")
		return
	}

	h.logger.Info("Product stock set",
		zap.String("product_id", id.String()),
		zap.Int("quantity", quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(*detail))
}

func (h *ProductHandler) parseFilters(r *http.Request) (repository.ProductFilters, error) {
	isActive, err := parseBoolParam(r, "is_active")
	if err != nil {
		return repository.ProductFilters{}, err
	}
	isFeatured, err := parseBoolParam(r, "is_featured")
	if err != nil {
		return repository.ProductFilters{}, err
	}
	categoryID, err := parseUUIDParam(r, "category_id")
	if err != nil {
		return repository.ProductFilters{}, err
	}
	minPrice, err := parseDecimalParam(r, "min_price")
	if err != nil {
		return repository.ProductFilters{}, err
	}
	maxPrice, err := parseDecimalParam(r, "max_price")
	if err != nil {
		return repository.ProductFilters{}, err
	}

	return repository.ProductFilters{
		IsActive:   isActive,
		IsFeatured: isFeatured,
		CategoryID: categoryID,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Search:     parseStringParam(r, "search"),
	}, nil
}

func (h *ProductHandler) toCreateInput(req CreateProductRequest) (service.CreateProductInput, error) {
	input := service.CreateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		SKU:               req.SKU,
		Price:             decimal.NewFromFloat(*req.Price),
		Quantity:          0,
		LowStockThreshold: 10,
		IsActive:          true,
		IsFeatured:        false,
		Weight:            req.Weight,
		ImageURL:          req.ImageURL,
		Tags:              req.Tags,
	}

	if req.CompareAtPrice != nil {
		d := decimal.NewFromFloat(*req.CompareAtPrice)
		input.CompareAtPrice = &d
	}
	if req.CostPrice != nil {
		d := decimal.NewFromFloat(*req.CostPrice)
		input.CostPrice = &d
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}
	if req.LowStockThreshold != nil {
		input.LowStockThreshold = *req.LowStockThreshold
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		input.IsFeatured = *req.IsFeatured
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return service.CreateProductInput{}, errors.New("category_id must be a valid UUID")
		}
		input.CategoryID = &id
	}

	return input, nil
}

func (h *ProductHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProductHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrProductAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "product with this SKU already exists")
	case errors.Is(err, repository.ErrProductSlugAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
