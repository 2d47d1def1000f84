package stress

import (
	"sync/atomic"
	"testing"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/logging"
)

func newStoreCollection(t *testing.T) (*docstore.Collection, Collection) {
	t.Helper()
	opts := docstore.DefaultOptions()
	opts.Logger = logging.Discard
	s, err := docstore.Open(opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	c, err := s.Collection("jstests_removec")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	return c, FromStore(c)
}

// fakeCollection forwards to a real collection unless a hook is set.
type fakeCollection struct {
	Collection

	createIndex func(spec docstore.IndexSpec) error
	insert      func(n int64, doc docstore.Document) (docstore.ID, error)
	remove      func(id docstore.ID) (int, error)
	findOne     func(field string, value int64) (docstore.Document, bool, error)
	scan        func(n int64, filter docstore.Filter, hint docstore.IndexSpec) (Cursor, error)
	drop        func(n int64) error

	inserts atomic.Int64
	scans   atomic.Int64
	drops   atomic.Int64
}

func (f *fakeCollection) CreateIndex(spec docstore.IndexSpec) error {
	if f.createIndex != nil {
		return f.createIndex(spec)
	}
	return f.Collection.CreateIndex(spec)
}

func (f *fakeCollection) Insert(doc docstore.Document) (docstore.ID, error) {
	n := f.inserts.Add(1)
	if f.insert != nil {
		return f.insert(n, doc)
	}
	return f.Collection.Insert(doc)
}

func (f *fakeCollection) Remove(id docstore.ID) (int, error) {
	if f.remove != nil {
		return f.remove(id)
	}
	return f.Collection.Remove(id)
}

func (f *fakeCollection) FindOne(field string, value int64) (docstore.Document, bool, error) {
	if f.findOne != nil {
		return f.findOne(field, value)
	}
	return f.Collection.FindOne(field, value)
}

func (f *fakeCollection) Scan(filter docstore.Filter, hint docstore.IndexSpec) (Cursor, error) {
	n := f.scans.Add(1)
	if f.scan != nil {
		return f.scan(n, filter, hint)
	}
	return f.Collection.Scan(filter, hint)
}

func (f *fakeCollection) Drop() error {
	n := f.drops.Add(1)
	if f.drop != nil {
		return f.drop(n)
	}
	return f.Collection.Drop()
}

// sliceCursor yields fixed results.
type sliceCursor struct {
	results []docstore.Result
	closed  bool
}

func (c *sliceCursor) Next() (docstore.Result, bool) {
	if c.closed || len(c.results) == 0 {
		return docstore.Result{}, false
	}
	r := c.results[0]
	c.results = c.results[1:]
	return r, true
}

func (c *sliceCursor) Close() { c.closed = true }

func okResults(n int) []docstore.Result {
	out := make([]docstore.Result, n)
	for i := range out {
		out[i] = docstore.Result{Doc: docstore.NewDocument("a", KeySequence(int64(i)*RunLength))}
	}
	return out
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Iterations = 200
	cfg.Repetitions = 20
	cfg.Seed = 42
	return cfg
}
