// Package skiplist implements the ordered key/value structure behind the
// document store's primary records and secondary indexes.
//
// Concurrency model:
//   - Reads (Get, Iterator) are lock-free and may run concurrently with a writer.
//   - Writes (Insert, Delete) require external synchronization.
//   - Delete unlinks a node but leaves its forward links intact, so an iterator
//     parked on the removed node still advances to a live successor. Iterators
//     never surface an unlinked node.
//
// Forward links only ever point at strictly greater keys, so an iterator that
// walks through unlinked nodes always terminates.
package skiplist

import (
	"bytes"
	"math/rand"
	"sync/atomic"
)

const (
	// DefaultMaxHeight is the default maximum height for skip list nodes.
	DefaultMaxHeight = 12

	// DefaultBranchingFactor is the default branching factor.
	// On average, 1/branchingFactor nodes will be promoted to next level.
	DefaultBranchingFactor = 4
)

// Comparator compares two keys and returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
type Comparator func(a, b []byte) int

// BytewiseComparator is the default comparator using bytes.Compare.
func BytewiseComparator(a, b []byte) int {
	return bytes.Compare(a, b)
}

type node struct {
	key   []byte
	value []byte
	next  []atomic.Pointer[node]

	// unlinked is set before the node is removed from any level.
	unlinked atomic.Bool
}

func newNode(key, value []byte, height int) *node {
	return &node{
		key:   key,
		value: value,
		next:  make([]atomic.Pointer[node], height),
	}
}

func (n *node) getNext(level int) *node {
	return n.next[level].Load()
}

func (n *node) setNext(level int, x *node) {
	n.next[level].Store(x)
}

// SkipList is an ordered map from keys to immutable values.
type SkipList struct {
	head      *node
	maxHeight atomic.Int32
	compare   Comparator
	rng       *rand.Rand // guarded by the external write lock

	kMaxHeight  int
	kScaledInvB uint32

	count atomic.Int64
}

// New creates a new skip list with the given comparator.
func New(cmp Comparator) *SkipList {
	return NewWithParams(cmp, DefaultMaxHeight, DefaultBranchingFactor)
}

// NewWithParams creates a new skip list with custom parameters.
func NewWithParams(cmp Comparator, maxHeight, branchingFactor int) *SkipList {
	if cmp == nil {
		cmp = BytewiseComparator
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if branchingFactor <= 0 {
		branchingFactor = DefaultBranchingFactor
	}

	sl := &SkipList{
		head:        newNode(nil, nil, maxHeight),
		compare:     cmp,
		rng:         rand.New(rand.NewSource(0xDEADBEEF)),
		kMaxHeight:  maxHeight,
		kScaledInvB: uint32(0xFFFFFFFF) / uint32(branchingFactor),
	}
	sl.maxHeight.Store(1)
	return sl
}

// Insert adds key with value. It returns false, leaving the list unchanged,
// if an equal key is already present. The list keeps references to key and
// value; callers must not modify them afterwards.
// REQUIRES: External synchronization.
func (sl *SkipList) Insert(key, value []byte) bool {
	prev := make([]*node, sl.kMaxHeight)
	x := sl.findGreaterOrEqual(key, prev)
	if x != nil && sl.compare(key, x.key) == 0 {
		return false
	}

	height := sl.randomHeight()
	maxH := int(sl.maxHeight.Load())
	if height > maxH {
		for i := maxH; i < height; i++ {
			prev[i] = sl.head
		}
		sl.maxHeight.Store(int32(height))
	}

	n := newNode(key, value, height)
	// Fill in the new node's links before publishing it at each level so a
	// concurrent reader never follows a nil link out of a published node.
	for i := range height {
		n.setNext(i, prev[i].getNext(i))
		prev[i].setNext(i, n)
	}

	sl.count.Add(1)
	return true
}

// Delete removes key. It returns false if the key is absent.
// REQUIRES: External synchronization.
func (sl *SkipList) Delete(key []byte) bool {
	prev := make([]*node, sl.kMaxHeight)
	x := sl.findGreaterOrEqual(key, prev)
	if x == nil || sl.compare(key, x.key) != 0 {
		return false
	}

	x.unlinked.Store(true)
	for i := len(x.next) - 1; i >= 0; i-- {
		if prev[i].getNext(i) == x {
			prev[i].setNext(i, x.getNext(i))
		}
	}

	sl.count.Add(-1)
	return true
}

// Get returns the value stored under key.
func (sl *SkipList) Get(key []byte) ([]byte, bool) {
	x := sl.findGreaterOrEqual(key, nil)
	if x == nil || sl.compare(key, x.key) != 0 {
		return nil, false
	}
	return x.value, true
}

// Contains returns true if the key is in the skip list.
func (sl *SkipList) Contains(key []byte) bool {
	_, ok := sl.Get(key)
	return ok
}

// Count returns the number of entries in the skip list.
func (sl *SkipList) Count() int64 {
	return sl.count.Load()
}

// findGreaterOrEqual finds the first node with key >= given key.
// If prev is not nil, fills in prev[level] with the predecessor at each level.
func (sl *SkipList) findGreaterOrEqual(key []byte, prev []*node) *node {
	x := sl.head
	level := int(sl.maxHeight.Load()) - 1

	for {
		next := x.getNext(level)
		if next != nil && sl.compare(key, next.key) > 0 {
			x = next
		} else {
			if prev != nil {
				prev[level] = x
			}
			if level == 0 {
				return next
			}
			level--
		}
	}
}

// randomHeight generates a random height for a new node.
func (sl *SkipList) randomHeight() int {
	height := 1
	for height < sl.kMaxHeight && sl.rng.Uint32() < sl.kScaledInvB {
		height++
	}
	return height
}

// Iterator provides forward iteration over the skip list.
// An Iterator is not safe for concurrent use.
type Iterator struct {
	list *SkipList
	node *node
}

// NewIterator creates a new iterator over the skip list.
// The iterator is not valid until a Seek method is called.
func (sl *SkipList) NewIterator() *Iterator {
	return &Iterator{list: sl}
}

// Valid returns true if the iterator is positioned at a node.
func (it *Iterator) Valid() bool {
	return it.node != nil
}

// Key returns the key at the current position.
// REQUIRES: Valid()
func (it *Iterator) Key() []byte {
	if it.node == nil {
		return nil
	}
	return it.node.key
}

// Value returns the value at the current position.
// REQUIRES: Valid()
func (it *Iterator) Value() []byte {
	if it.node == nil {
		return nil
	}
	return it.node.value
}

// Next advances to the next live node.
func (it *Iterator) Next() {
	if it.node == nil {
		return
	}
	it.node = skipUnlinked(it.node.getNext(0))
}

// Seek positions the iterator at the first live entry with key >= target.
func (it *Iterator) Seek(target []byte) {
	it.node = skipUnlinked(it.list.findGreaterOrEqual(target, nil))
}

// SeekToFirst positions the iterator at the first live entry.
func (it *Iterator) SeekToFirst() {
	it.node = skipUnlinked(it.list.head.getNext(0))
}

func skipUnlinked(n *node) *node {
	for n != nil && n.unlinked.Load() {
		n = n.getNext(0)
	}
	return n
}
