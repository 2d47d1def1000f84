package docstore

import (
	"bytes"
	"fmt"
	"math"

	"github.com/aalhour/docstore/internal/skiplist"
)

// Result is one step of a cursor: either a document or the error that
// ended the scan. Exactly one of Doc and Err is meaningful.
type Result struct {
	Doc Document
	Err error
}

// OK reports whether the result carries a document.
func (r Result) OK() bool {
	return r.Err == nil
}

// Query is a pending scan over a collection.
type Query struct {
	c      *Collection
	filter Filter
	hint   *IndexSpec
}

// Find starts a query for documents matching f. A nil filter matches all.
func (c *Collection) Find(f Filter) *Query {
	if f == nil {
		f = All{}
	}
	return &Query{c: c, filter: f}
}

// Hint forces the scan to walk the given index.
func (q *Query) Hint(spec IndexSpec) *Query {
	out := *q
	out.hint = &spec
	return &out
}

// Cursor plans the query and returns a single-pass cursor over its results.
//
// With a hint, the hinted index is scanned; hinting a missing index fails with
// ErrIndexNotFound. Without one, an index over the filtered field is used if
// present, otherwise the primary records are scanned in identity order.
func (q *Query) Cursor() (*Cursor, error) {
	c := q.c
	if c.store.closed.Load() {
		return nil, c.opError("find", ErrClosed)
	}
	st := c.state.Load()
	cur := &Cursor{filter: q.filter, st: st}

	field, lo, hi, bounded := q.filter.bounds()
	var idx IndexSpec
	var useIndex bool
	if q.hint != nil {
		spec, ok := st.indexes[q.hint.Name()]
		if !ok {
			return nil, c.opError("find", fmt.Errorf("%w: hint %s", ErrIndexNotFound, q.hint))
		}
		idx, useIndex = spec, true
	} else if bounded {
		idx, useIndex = st.indexes[IndexSpec{Field: field}.Name()]
	}

	if !useIndex {
		cur.it = st.primary.NewIterator()
		return cur, nil
	}
	if !bounded || field != idx.Field {
		lo, hi = math.MinInt64, math.MaxInt64
	}
	cur.index = &idx
	cur.prefix = indexPrefix(idx.Name())
	cur.lo, cur.hi = lo, hi
	cur.seen = make(map[ID]struct{})
	cur.it = st.entries.NewIterator()
	return cur, nil
}

// One returns the first result of the query.
func (q *Query) One() (Document, bool, error) {
	cur, err := q.Cursor()
	if err != nil {
		return Document{}, false, err
	}
	defer cur.Close()
	r, ok := cur.Next()
	if !ok {
		return Document{}, false, nil
	}
	if r.Err != nil {
		return Document{}, false, r.Err
	}
	return r.Doc, true, nil
}

// Count drains the query and returns the number of documents produced. It
// stops at, and returns, the first error result.
func (q *Query) Count() (int, error) {
	cur, err := q.Cursor()
	if err != nil {
		return 0, err
	}
	defer cur.Close()
	n := 0
	for r, ok := cur.Next(); ok; r, ok = cur.Next() {
		if r.Err != nil {
			return n, r.Err
		}
		n++
	}
	return n, nil
}

// Cursor is a lazy, single-pass sequence of query results.
//
// An index cursor returns each document at most once even though a
// multikey index holds several entries per document. Entries whose document
// has been removed are skipped, as are entries left over from an earlier
// incarnation of a document that no longer holds the entry's value. An entry
// that was written for the current record but does not match it is
// corruption, reported as a final Result carrying ErrCorruption.
type Cursor struct {
	filter Filter
	st     *collState
	it     *skiplist.Iterator

	// Index scans only.
	index  *IndexSpec
	prefix []byte
	lo, hi int64
	seen   map[ID]struct{}

	started bool
	done    bool
}

// Index returns the index the cursor walks, if any.
func (c *Cursor) Index() (IndexSpec, bool) {
	if c.index == nil {
		return IndexSpec{}, false
	}
	return *c.index, true
}

// Next returns the next result. ok is false once the cursor is exhausted;
// a result carrying an error is always the last one.
func (c *Cursor) Next() (r Result, ok bool) {
	if c.done {
		return Result{}, false
	}
	if c.index != nil {
		return c.nextIndexed()
	}
	return c.nextPrimary()
}

// Close releases the cursor. Calling Next after Close returns ok=false.
func (c *Cursor) Close() {
	c.done = true
	c.seen = nil
}

func (c *Cursor) advance(seek []byte) {
	if !c.started {
		c.started = true
		if seek == nil {
			c.it.SeekToFirst()
		} else {
			c.it.Seek(seek)
		}
		return
	}
	c.it.Next()
}

func (c *Cursor) fail(err error) (Result, bool) {
	c.done = true
	return Result{Err: err}, true
}

func (c *Cursor) finish() (Result, bool) {
	c.done = true
	return Result{}, false
}

func (c *Cursor) nextPrimary() (Result, bool) {
	for {
		c.advance(nil)
		if !c.it.Valid() {
			return c.finish()
		}
		id, ok := idFromKey(c.it.Key())
		if !ok {
			return c.fail(corruptionf("primary key %x", c.it.Key()))
		}
		doc, _, err := decodeRecord(id, c.it.Value())
		if err != nil {
			return c.fail(err)
		}
		if c.filter.Matches(doc) {
			return Result{Doc: doc}, true
		}
	}
}

func (c *Cursor) nextIndexed() (Result, bool) {
	name := c.index.Name()
	for {
		var seek []byte
		if !c.started {
			seek = appendIndexKey(c.prefix, c.lo, ID{})
		}
		c.advance(seek)
		if !c.it.Valid() || !bytes.HasPrefix(c.it.Key(), c.prefix) {
			return c.finish()
		}
		v, id, ok := decodeIndexKey(c.it.Key(), len(c.prefix))
		if !ok {
			return c.fail(corruptionf("index %s: malformed entry %x", name, c.it.Key()))
		}
		if v > c.hi {
			return c.finish()
		}
		if _, dup := c.seen[id]; dup {
			continue
		}
		entrySeq, ok := decodeIndexValue(c.it.Value())
		if !ok {
			return c.fail(corruptionf("index %s: entry %d/%s has bad sequence", name, v, id))
		}

		frame, ok := c.st.primary.Get(id[:])
		if !ok {
			// Removed after the entry was read.
			continue
		}
		doc, seq, err := decodeRecord(id, frame)
		if err != nil {
			return c.fail(err)
		}
		switch {
		case entrySeq > seq:
			return c.fail(corruptionf("index %s: entry %d/%s at seq %d is newer than its record (seq %d)", name, v, id, entrySeq, seq))
		case !doc.Contains(c.index.Field, v):
			if entrySeq == seq {
				return c.fail(corruptionf("index %s: entry %d/%s does not match its record", name, v, id))
			}
			continue
		}

		c.seen[id] = struct{}{}
		if c.filter.Matches(doc) {
			return Result{Doc: doc}, true
		}
	}
}
