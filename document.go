package docstore

import (
	"fmt"
	"maps"
	"slices"
)

// Document is a stored document: an identity plus named integer-array
// fields. A scalar value is a one-element array.
type Document struct {
	ID     ID
	Fields map[string][]int64
}

// NewDocument returns a document without an identity; Insert assigns one.
func NewDocument(field string, values []int64) Document {
	return Document{Fields: map[string][]int64{field: values}}
}

// Contains reports whether field holds v as one of its elements.
func (d Document) Contains(field string, v int64) bool {
	return slices.Contains(d.Fields[field], v)
}

// Equal reports whether d and o have the same identity and field contents.
func (d Document) Equal(o Document) bool {
	return d.ID == o.ID && maps.EqualFunc(d.Fields, o.Fields, slices.Equal[[]int64])
}

// fieldNames returns field names in sorted order so encodings are stable.
func (d Document) fieldNames() []string {
	return slices.Sorted(maps.Keys(d.Fields))
}

func (d Document) validate() error {
	for name := range d.Fields {
		if name == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidDocument)
		}
	}
	return nil
}
