package stress

import (
	"github.com/aalhour/docstore"
)

// Collection is the document store surface the workload runs against.
type Collection interface {
	// CreateIndex declares a multikey index over spec.Field.
	CreateIndex(spec docstore.IndexSpec) error
	// Insert stores doc, keeping a non-zero doc.ID.
	Insert(doc docstore.Document) (docstore.ID, error)
	// Remove deletes by identity; a missing identity is not an error.
	Remove(id docstore.ID) (int, error)
	// FindOne looks up one document whose field contains value.
	FindOne(field string, value int64) (docstore.Document, bool, error)
	// Scan opens a cursor over documents matching filter, walking hint.
	Scan(filter docstore.Filter, hint docstore.IndexSpec) (Cursor, error)
	// Drop removes all documents and indexes; it is idempotent.
	Drop() error
}

// Cursor is a single-pass sequence of scan results.
type Cursor interface {
	Next() (docstore.Result, bool)
	Close()
}

// FromStore adapts a docstore collection.
func FromStore(c *docstore.Collection) Collection {
	return storeCollection{c}
}

type storeCollection struct {
	c *docstore.Collection
}

func (s storeCollection) CreateIndex(spec docstore.IndexSpec) error {
	return s.c.CreateIndex(spec)
}

func (s storeCollection) Insert(doc docstore.Document) (docstore.ID, error) {
	return s.c.Insert(doc)
}

func (s storeCollection) Remove(id docstore.ID) (int, error) {
	return s.c.Remove(id)
}

func (s storeCollection) FindOne(field string, value int64) (docstore.Document, bool, error) {
	return s.c.FindOne(docstore.Eq{Field: field, Value: value})
}

func (s storeCollection) Scan(filter docstore.Filter, hint docstore.IndexSpec) (Cursor, error) {
	cur, err := s.c.Find(filter).Hint(hint).Cursor()
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (s storeCollection) Drop() error {
	return s.c.Drop()
}
