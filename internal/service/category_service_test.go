package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/google/uuid"
)

func newTestCategoryService(categories *mockCategoryRepository) CategoryService {
	return NewCategoryService(categories, stubTxRunner{})
}

func TestCategoryService_CreateDerivesSlug(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	category, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Office  Supplies"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if category.Slug != "office-supplies" {
		t.Errorf("slug should derive from name, got %q", category.Slug)
	}
	if !category.IsActive {
		t.Error("new categories should default to active")
	}
	if category.UpdatedAt != nil {
		t.Error("updated_at should stay null until the first update")
	}
}

func TestCategoryService_CreateValidation(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	for _, name := range []string{"", "???", strings.Repeat("é", 101)} {
		_, err := svc.Create(context.Background(), CreateCategoryInput{Name: name})

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("name %q should be rejected, got %v", name, err)
		}
	}
}

func TestCategoryService_NameLengthCountsRunes(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	// 100 runes but 200 bytes; the limit is on characters.
	if _, err := svc.Create(context.Background(), CreateCategoryInput{Name: strings.Repeat("é", 100)}); err != nil {
		t.Fatalf("a 100-rune multibyte name must be accepted, got %v", err)
	}
}

func TestCategoryService_CreateDuplicateNameConflicts(t *testing.T) {
	categories := newMockCategoryRepository()
	svc := newTestCategoryService(categories)

	if _, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Snacks"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Snacks"})
	if !errors.Is(err, repository.ErrCategoryAlreadyExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(categories.categories) != 1 {
		t.Errorf("a rejected create must not change the category count, got %d", len(categories.categories))
	}
}

func TestCategoryService_CommitTimeViolationBecomesConflict(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepository(), commitConflictTxRunner{})

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Raced"})
	if !errors.Is(err, repository.ErrCategoryAlreadyExists) {
		t.Fatalf("commit-time unique violation should map to conflict, got %v", err)
	}
}

func TestCategoryService_UpdateAppliesOnlySuppliedFields(t *testing.T) {
	categories := newMockCategoryRepository()
	svc := newTestCategoryService(categories)

	created, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Drinks"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	description := "cold and hot"
	updated, err := svc.Update(context.Background(), created.ID, domain.CategoryPatch{
		Description: domain.Some(description),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "Drinks" || updated.Slug != "drinks" {
		t.Errorf("an update without name must preserve name and slug, got %q/%q", updated.Name, updated.Slug)
	}
	if updated.Description == nil || *updated.Description != description {
		t.Errorf("description should be set, got %v", updated.Description)
	}
	if updated.UpdatedAt == nil {
		t.Error("update should refresh updated_at")
	}

	// A rename recomputes the slug.
	renamed, err := svc.Update(context.Background(), created.ID, domain.CategoryPatch{
		Name: domain.Some("Hot Drinks"),
	})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Slug != "hot-drinks" {
		t.Errorf("rename should recompute slug, got %q", renamed.Slug)
	}
	if renamed.Description == nil || *renamed.Description != description {
		t.Error("rename must not touch the description")
	}
}

func TestCategoryService_UpdateRejectsNullName(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	_, err := svc.Update(context.Background(), uuid.New(), domain.CategoryPatch{
		Name: domain.Null[string](),
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("null name should be rejected, got %v", err)
	}
}

func TestCategoryService_UpdateUnknownIDIsNotFound(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	_, err := svc.Update(context.Background(), uuid.New(), domain.CategoryPatch{
		Name: domain.Some("Ghost"),
	})
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCategoryService_DeleteUnknownIDIsNotFound(t *testing.T) {
	svc := newTestCategoryService(newMockCategoryRepository())

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
