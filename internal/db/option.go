package db

import (
	"bytes"
	"encoding/json"
)

// Option marks whether a changeset field was provided at all.
// Wrapping a pointer gives three states for a nullable column:
//
//	Option[*string]{}          // not provided, column is skipped
//	Set[*string](nil)          // provided as NULL
//	Set(ptr("Bob"))            // provided with a value
//
// Null records an explicit JSON null, including for non-pointer T where Value cannot hold it.
type Option[T any] struct {
	Valid bool
	Null  bool
	Value T
}

func Set[T any](v T) Option[T] {
	return Option[T]{Valid: true, Value: v}
}

// Null is a provided NULL for a nullable column.
func Null[T any]() Option[*T] {
	return Option[*T]{Valid: true, Null: true}
}

// Value is a provided non-NULL value for a nullable column.
func Value[T any](v T) Option[*T] {
	return Option[*T]{Valid: true, Value: &v}
}

// UnmarshalJSON is only called for keys present in the document, so an absent key
// stays unset while an explicit null is provided with Null set.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	var zero T
	o.Valid = true
	o.Value = zero
	o.Null = bytes.Equal(bytes.TrimSpace(data), []byte("null"))
	if o.Null {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
