package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"catalog-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var productSortKeys = map[string]bool{
	"name":       true,
	"price":      true,
	"created_at": true,
	"quantity":   true,
}

// parsePagination reads and bounds-checks the page and limit query
// params. Out-of-range values are rejected before any storage work.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page, err = parseIntParam(r, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be at least 1")
	}

	limit, err = parseIntParam(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}

	return page, limit, nil
}

// parseProductSort validates the sort key and direction; an unknown key
// or direction is a validation error, not a silent default.
func parseProductSort(r *http.Request) (string, repository.SortOrder, error) {
	sortBy := r.URL.Query().Get("sort_by")
	if sortBy == "" {
		sortBy = "created_at"
	}
	if !productSortKeys[sortBy] {
		return "", "", fmt.Errorf("sort_by must be one of name, price, created_at, quantity")
	}

	switch r.URL.Query().Get("sort_order") {
	case "", "desc":
		return sortBy, repository.SortOrderDesc, nil
	case "asc":
		return sortBy, repository.SortOrderAsc, nil
	default:
		return "", "", fmt.Errorf("sort_order must be asc or desc")
	}
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}

func parseBoolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &value, nil
}

func parseUUIDParam(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return &value, nil
}

func parseDecimalParam(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &value, nil
}

func parseStringParam(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}
