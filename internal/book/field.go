package book

import (
	"bytes"
	"encoding/json"
)

// Field is an optional value of a partial update.
// The zero Field is absent; a present Field is either null or holds Value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a present Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a present Field holding null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Arg returns the bind argument for f: nil for null, Value otherwise.
func (f Field[T]) Arg() any {
	if f.Null {
		return nil
	}
	return f.Value
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for keys that
// are present in the document.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}

	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON implements json.Marshaler. Absent fields encode as null;
// use omitzero to drop them.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// IsZero reports whether f is absent.
func (f Field[T]) IsZero() bool {
	return !f.Set
}
