package docstore

import "math"

// Filter selects documents. Predicates on array fields match when any
// element satisfies them.
type Filter interface {
	// Matches reports whether doc satisfies the filter.
	Matches(doc Document) bool

	// bounds returns the value range of field the filter restricts, or
	// ok=false if it restricts none.
	bounds() (field string, lo, hi int64, ok bool)
}

// All matches every document.
type All struct{}

// Matches implements Filter.
func (All) Matches(Document) bool { return true }

func (All) bounds() (string, int64, int64, bool) { return "", 0, 0, false }

// Eq matches documents whose Field contains Value.
type Eq struct {
	Field string
	Value int64
}

// Matches implements Filter.
func (f Eq) Matches(doc Document) bool {
	return doc.Contains(f.Field, f.Value)
}

func (f Eq) bounds() (string, int64, int64, bool) {
	return f.Field, f.Value, f.Value, true
}

// Gte matches documents whose Field has some element >= Value.
type Gte struct {
	Field string
	Value int64
}

// Matches implements Filter.
func (f Gte) Matches(doc Document) bool {
	for _, v := range doc.Fields[f.Field] {
		if v >= f.Value {
			return true
		}
	}
	return false
}

func (f Gte) bounds() (string, int64, int64, bool) {
	return f.Field, f.Value, math.MaxInt64, true
}
