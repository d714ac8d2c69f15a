package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilters holds the optional filters of a product list query.
// A nil field contributes no predicate, except IsActive which defaults
// to true when the caller leaves it unset.
type ProductFilters struct {
	IsActive   *bool
	IsFeatured *bool
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     *string
}

// CategoryFilters holds the optional filters of a category list query.
type CategoryFilters struct {
	IsActive *bool
}

// predicateBuilder accumulates conjunctive SQL conditions with sequential
// positional args. One builder feeds both the COUNT and the page SELECT of
// a list query, so the reported total always matches the filtered set.
type predicateBuilder struct {
	conds []string
	args  []any
}

// add appends one condition. The condition string uses %d verbs for its
// placeholders, which are replaced with the next positional indexes.
func (b *predicateBuilder) add(cond string, args ...any) {
	indexes := make([]any, len(args))
	for i := range args {
		indexes[i] = len(b.args) + i + 1
	}
	b.conds = append(b.conds, fmt.Sprintf(cond, indexes...))
	b.args = append(b.args, args...)
}

// whereClause renders the accumulated conjunction, or "" when no
// predicate was added.
func (b *predicateBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// nextIndex returns the positional index the next argument would get,
// used for LIMIT/OFFSET placeholders appended after the predicates.
func (b *predicateBuilder) nextIndex() int {
	return len(b.args) + 1
}

func productPredicates(f ProductFilters) *predicateBuilder {
	b := &predicateBuilder{}

	// Unspecified means "active only"; callers wanting inactive products
	// must ask for them explicitly.
	isActive := true
	if f.IsActive != nil {
		isActive = *f.IsActive
	}
	b.add("is_active = $%d", isActive)

	if f.IsFeatured != nil {
		b.add("is_featured = $%d", *f.IsFeatured)
	}
	if f.CategoryID != nil {
		b.add("category_id = $%d", *f.CategoryID)
	}
	if f.MinPrice != nil {
		b.add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add("price <= $%d", *f.MaxPrice)
	}
	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		pattern := "%" + *f.Search + "%"
		b.add("(name ILIKE $%d OR description ILIKE $%d)", pattern, pattern)
	}

	return b
}

func categoryPredicates(f CategoryFilters) *predicateBuilder {
	b := &predicateBuilder{}

	isActive := true
	if f.IsActive != nil {
		isActive = *f.IsActive
	}
	b.add("is_active = $%d", isActive)

	return b
}
