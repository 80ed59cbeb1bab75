package linkshort

import (
	"context"
	"math/rand"
	"sync"
)

// Store is an in-memory Index. Entries are added with random IDs and live
// for as long as the process does.
type Store struct {
	mu    sync.RWMutex
	urls  map[uint64]string
	newID func() uint64
}

// compile-time assertion that we implement Index
var _ Index = &Store{}

type StoreOption func(*Store)

// WithIDGenerator replaces the source of candidate IDs. The default draws
// uniformly from the full uint64 range.
func WithIDGenerator(gen func() uint64) StoreOption {
	return func(s *Store) { s.newID = gen }
}

// NewStore returns an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		urls:  make(map[uint64]string),
		newID: rand.Uint64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert adds longURL under a fresh random ID and returns that ID.
// longURL is stored as given; callers normalize it first.
func (s *Store) Insert(longURL string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := s.newID()
		if _, taken := s.urls[id]; taken {
			continue
		}
		s.urls[id] = longURL
		return id
	}
}

// Lookup returns the URL stored under id, or ErrNotFound.
func (s *Store) Lookup(id uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	longURL, ok := s.urls[id]
	if !ok {
		return "", ErrNotFound
	}
	return longURL, nil
}

// Len returns the number of stored links.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// CountLinks implements LinkCounter.
func (s *Store) CountLinks() (int, error) {
	return s.Len(), nil
}

// AddURL implements Index.
func (s *Store) AddURL(_ context.Context, longURL string) (uint64, error) {
	return s.Insert(longURL), nil
}

// LookupID implements Index.
func (s *Store) LookupID(_ context.Context, id uint64) (string, error) {
	return s.Lookup(id)
}
