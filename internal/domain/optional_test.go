package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOptional_AbsentVersusNullVersusValue(t *testing.T) {
	var patch ProductPatch
	body := `{"name": "New Name", "description": null, "price": 12.5}`

	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	if !patch.Name.Present() || patch.Name.Value != "New Name" {
		t.Errorf("name should be present with value, got %+v", patch.Name)
	}
	if !patch.Description.Set || !patch.Description.Null {
		t.Errorf("description should be an explicit null, got %+v", patch.Description)
	}
	if patch.Description.Present() {
		t.Error("an explicit null must not count as present")
	}
	if !patch.Price.Present() || !patch.Price.Value.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("price should be present with value 12.5, got %+v", patch.Price)
	}

	// Everything the body omitted stays unset.
	if patch.Quantity.Set || patch.IsActive.Set || patch.CategoryID.Set || patch.Tags.Set {
		t.Errorf("omitted fields must remain unset, got %+v", patch)
	}
}

func TestOptional_EmptyBodySetsNothing(t *testing.T) {
	var patch CategoryPatch
	if err := json.Unmarshal([]byte(`{}`), &patch); err != nil {
		t.Fatalf("unmarshal empty patch: %v", err)
	}

	if patch.Name.Set || patch.Description.Set || patch.IsActive.Set {
		t.Errorf("empty body must leave every field unset, got %+v", patch)
	}
}

func TestOptional_FalseIsAValue(t *testing.T) {
	var patch CategoryPatch
	if err := json.Unmarshal([]byte(`{"is_active": false}`), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	if !patch.IsActive.Present() {
		t.Fatal("is_active=false should be present")
	}
	if patch.IsActive.Value {
		t.Error("is_active value should be false")
	}
}

func TestOptional_Helpers(t *testing.T) {
	some := Some(42)
	if !some.Present() || some.Value != 42 {
		t.Errorf("Some(42) should be present with 42, got %+v", some)
	}

	null := Null[int]()
	if !null.Set || !null.Null || null.Present() {
		t.Errorf("Null() should be set, null and not present, got %+v", null)
	}
}
