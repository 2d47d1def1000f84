package docstore

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/aalhour/docstore/internal/logging"
)

// Store is a set of named collections sharing one set of Options.
type Store struct {
	opts   Options
	logger logging.Logger

	mu          sync.Mutex
	collections map[string]*Collection

	closed atomic.Bool
}

// Open creates a store. A nil opts uses DefaultOptions.
func Open(opts *Options) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s := &Store{
		opts:        *opts,
		logger:      logging.OrDefault(opts.Logger),
		collections: make(map[string]*Collection),
	}
	s.logger.Debugf("%sopened (compression=%s checksum=%s)", logging.NSStore, opts.Compression, opts.ChecksumType)
	return s, nil
}

// Collection returns the named collection, creating it if needed.
func (s *Store) Collection(name string) (*Collection, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if name == "" {
		return nil, errors.New("docstore: empty collection name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = newCollection(name, s)
		s.collections[name] = c
	}
	return c, nil
}

// CollectionNames returns the names of all collections in sorted order.
func (s *Store) CollectionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.collections))
}

// DropCollection drops the named collection and forgets it.
// Dropping a collection that does not exist is not an error.
func (s *Store) DropCollection(name string) error {
	s.mu.Lock()
	c, ok := s.collections[name]
	delete(s.collections, name)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Drop()
}

// Close closes the store. Subsequent operations fail with ErrClosed.
// Close is idempotent.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.logger.Debugf("%sclosed", logging.NSStore)
	return nil
}
