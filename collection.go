package docstore

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/aalhour/docstore/internal/logging"
	"github.com/aalhour/docstore/internal/skiplist"
)

// collState is the data of a collection. Lists are mutated in place under
// Collection.mu; indexes is replaced, never mutated, once published.
type collState struct {
	primary *skiplist.SkipList // id -> record frame
	entries *skiplist.SkipList // index keyspace, see indexPrefix
	indexes map[string]IndexSpec
}

func newCollState() *collState {
	return &collState{
		primary: skiplist.New(skiplist.BytewiseComparator),
		entries: skiplist.New(skiplist.BytewiseComparator),
		indexes: make(map[string]IndexSpec),
	}
}

// Collection is a set of documents with secondary indexes.
type Collection struct {
	name   string
	store  *Store
	logger logging.Logger

	mu    sync.Mutex // serializes writers
	seq   uint64     // last assigned record sequence, guarded by mu
	state atomic.Pointer[collState]
}

func newCollection(name string, s *Store) *Collection {
	c := &Collection{name: name, store: s, logger: s.logger}
	c.state.Store(newCollState())
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) opError(op string, err error) error {
	return &StoreError{Op: op, Collection: c.name, Err: err}
}

// CreateIndex declares an ascending multikey index over spec.Field and
// builds it over the documents already stored. Creating an index that
// already exists is a no-op.
func (c *Collection) CreateIndex(spec IndexSpec) error {
	if c.store.closed.Load() {
		return c.opError("createIndex", ErrClosed)
	}
	if spec.Field == "" {
		return c.opError("createIndex", fmt.Errorf("%w: empty field", ErrInvalidIndex))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state.Load()
	if _, ok := st.indexes[spec.Name()]; ok {
		return nil
	}

	prefix := indexPrefix(spec.Name())
	var built [][]byte
	docs := 0
	it := st.primary.NewIterator()
	for it.SeekToFirst(); it.Valid(); it.Next() {
		id, ok := idFromKey(it.Key())
		if !ok {
			return c.opError("createIndex", corruptionf("primary key %x", it.Key()))
		}
		doc, seq, err := decodeRecord(id, it.Value())
		if err != nil {
			// Roll back entries of a build that cannot complete.
			for _, key := range built {
				st.entries.Delete(key)
			}
			return c.opError("createIndex", err)
		}
		val := encodeIndexValue(seq)
		for _, v := range doc.Fields[spec.Field] {
			key := appendIndexKey(prefix, v, id)
			if st.entries.Insert(key, val) {
				built = append(built, key)
			}
		}
		docs++
	}

	indexes := maps.Clone(st.indexes)
	indexes[spec.Name()] = spec
	c.state.Store(&collState{primary: st.primary, entries: st.entries, indexes: indexes})

	c.logger.Infof("%sbuilt index %s on %q: %d documents, %d entries", logging.NSStore, spec.Name(), c.name, docs, len(built))
	return nil
}

// Indexes returns the collection's indexes sorted by name.
func (c *Collection) Indexes() []IndexSpec {
	st := c.state.Load()
	specs := slices.Collect(maps.Values(st.indexes))
	slices.SortFunc(specs, func(a, b IndexSpec) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
	return specs
}

// Insert stores doc and returns its identity. A zero doc.ID is replaced by a
// fresh one; a non-zero ID is kept as is, which is how a removed document is
// put back unchanged. Insert fails with ErrDuplicateKey if the identity is
// already stored.
func (c *Collection) Insert(doc Document) (ID, error) {
	if c.store.closed.Load() {
		return ID{}, c.opError("insert", ErrClosed)
	}
	if err := doc.validate(); err != nil {
		return ID{}, c.opError("insert", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if doc.ID.IsZero() {
		doc.ID = NewID()
	}
	st := c.state.Load()
	idKey := slices.Clone(doc.ID[:])
	if st.primary.Contains(idKey) {
		return ID{}, c.opError("insert", fmt.Errorf("%w: _id %s", ErrDuplicateKey, doc.ID))
	}

	seq := c.seq + 1
	frame, err := encodeRecord(doc, seq, c.store.opts.Compression, c.store.opts.ChecksumType)
	if err != nil {
		return ID{}, c.opError("insert", err)
	}
	c.seq = seq

	// Primary first: an index entry must never point at a record that was
	// not yet written.
	st.primary.Insert(idKey, frame)
	val := encodeIndexValue(seq)
	for _, spec := range st.indexes {
		prefix := indexPrefix(spec.Name())
		for _, v := range doc.Fields[spec.Field] {
			st.entries.Insert(appendIndexKey(prefix, v, doc.ID), val)
		}
	}
	return doc.ID, nil
}

// Remove deletes the document with the given identity and reports how many
// documents were removed (0 or 1). A missing identity is not an error.
func (c *Collection) Remove(id ID) (int, error) {
	if c.store.closed.Load() {
		return 0, c.opError("remove", ErrClosed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state.Load()
	frame, ok := st.primary.Get(id[:])
	if !ok {
		return 0, nil
	}
	doc, _, err := decodeRecord(id, frame)
	if err != nil {
		return 0, c.opError("remove", err)
	}

	// Index entries first, mirroring Insert.
	for _, spec := range st.indexes {
		prefix := indexPrefix(spec.Name())
		for _, v := range doc.Fields[spec.Field] {
			st.entries.Delete(appendIndexKey(prefix, v, id))
		}
	}
	st.primary.Delete(id[:])
	return 1, nil
}

// Get returns the document with the given identity.
func (c *Collection) Get(id ID) (Document, bool, error) {
	if c.store.closed.Load() {
		return Document{}, false, c.opError("get", ErrClosed)
	}
	frame, ok := c.state.Load().primary.Get(id[:])
	if !ok {
		return Document{}, false, nil
	}
	doc, _, err := decodeRecord(id, frame)
	if err != nil {
		return Document{}, false, c.opError("get", err)
	}
	return doc, true, nil
}

// FindOne returns one document matching f, using an index over the filtered
// field when one exists. Which of several matching documents is returned is
// unspecified.
func (c *Collection) FindOne(f Filter) (Document, bool, error) {
	return c.Find(f).One()
}

// Count returns the number of stored documents.
func (c *Collection) Count() int64 {
	return c.state.Load().primary.Count()
}

// Drop removes all documents and indexes. Drop is idempotent. Cursors opened
// before the drop finish over the data they started on.
func (c *Collection) Drop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.state.Swap(newCollState())
	if n := old.primary.Count(); n > 0 || len(old.indexes) > 0 {
		c.logger.Infof("%sdropped %q: %d documents, %d indexes", logging.NSStore, c.name, n, len(old.indexes))
	}
	return nil
}

func idFromKey(key []byte) (ID, bool) {
	var id ID
	if len(key) != IDLength {
		return id, false
	}
	copy(id[:], key)
	return id, true
}
