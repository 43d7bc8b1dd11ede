package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/respkv-go/pkg/cmap"
)

// ErrNotInitialised is returned by operations on a store that was Reset
// and not yet initialised again.
var ErrNotInitialised = errors.New("memory: store not initialised")

// Store is the shared key-value store.
//
// A Store is created once at startup and handed to every connection. It
// is ready for use after New; Reset empties it and leaves it unusable
// until Initialise is called.
type Store struct {
	// mu guards the entries pointer only. Operations hold it for reading,
	// Initialise and Reset for writing.
	mu      sync.RWMutex
	entries *cmap.Map[*Entry]

	shardCount int
	now        func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithShardCount sets the number of lock shards (a power of two).
func WithShardCount(n int) Option {
	return func(s *Store) {
		s.shardCount = n
	}
}

// WithClock overrides the time source used for CreatedAt and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an initialised store.
func New(opts ...Option) *Store {
	s := &Store{
		shardCount: cmap.DefaultShardCount,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Initialise()
	return s
}

// Initialise allocates the entry map. It is a no-op on an initialised store.
func (s *Store) Initialise() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		s.entries = cmap.New[*Entry](s.shardCount)
	}
}

// Reset drops every entry and un-initialises the store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries != nil {
		s.entries.Clear()
		s.entries = nil
	}
}

// Initialised reports whether the store accepts operations.
func (s *Store) Initialised() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries != nil
}

// Get returns the value stored under key.
//
// Get does not interpret expiry; callers combine it with IsExpired.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return "", false, ErrNotInitialised
	}

	entry, ok := s.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Entry returns a copy of the entry stored under key, metadata included.
func (s *Store) Entry(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return Entry{}, false, ErrNotInitialised
	}

	entry, ok := s.entries.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	return *entry, true, nil
}

// IsExpired reports whether key exists, has an expiry, and that expiry is
// at or before now. Absent keys and keys without expiry are not expired.
func (s *Store) IsExpired(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return false, ErrNotInitialised
	}

	entry, ok := s.entries.Get(key)
	if !ok {
		return false, nil
	}
	return entry.ExpiredAt(s.now()), nil
}

// Set stores value under key, replacing the value and all metadata of any
// previous entry. It returns the previous value, if there was one.
func (s *Store) Set(_ context.Context, key, value string, opts SetOptions) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return "", false, ErrNotInitialised
	}

	now := s.now()
	entry := &Entry{
		Value:     value,
		CreatedAt: now,
	}
	if opts.TTL > 0 {
		entry.ExpireAt = now.Add(opts.TTL)
	}

	prev, existed := s.entries.Swap(key, entry)
	if !existed {
		return "", false, nil
	}
	return prev.Value, true, nil
}

// Delete removes keys and returns how many of them were present.
func (s *Store) Delete(_ context.Context, keys ...string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return 0, ErrNotInitialised
	}

	removed := 0
	for _, key := range keys {
		if _, ok := s.entries.Pop(key); ok {
			removed++
		}
	}
	return removed, nil
}

// DeleteIfExpired removes key only if it is expired, re-checking under the
// write lock so that a concurrent Set of a fresh value is never lost.
func (s *Store) DeleteIfExpired(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return false, ErrNotInitialised
	}

	now := s.now()
	return s.entries.DeleteIf(key, func(e *Entry) bool {
		return e.ExpiredAt(now)
	}), nil
}

// Len returns the number of resident entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return 0
	}
	return s.entries.Len()
}
