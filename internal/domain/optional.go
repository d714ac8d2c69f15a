package domain

import "encoding/json"

// Optional wraps a patch field so that three states are distinguishable
// after decoding a request body: the key was absent, the key was present
// with a null value, or the key was present with a concrete value.
// encoding/json only invokes UnmarshalJSON for keys that appear in the
// input, which is what makes the absent state observable.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Present reports whether the field carries a concrete (non-null) value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Some builds a present Optional, mainly for tests and internal callers.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null builds an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}
