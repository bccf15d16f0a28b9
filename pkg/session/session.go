// Package session maps an opaque id to an uploaded recipient table for
// the lifetime of the editing session. Purely in-memory: uploads do not
// survive a process restart and callers re-upload after expiry.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

type entry struct {
	dataset   *mailer.Dataset
	expiresAt time.Time
}

// Store holds uploaded datasets keyed by an opaque session id.
type Store struct {
	mu      sync.Mutex
	items   map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
	cleanup time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets how long an uploaded dataset stays retrievable.
// Default: 2 hours.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired sessions are removed by the
// background janitor. Zero disables the janitor (expired entries are
// still dropped lazily on access). Default: 5 minutes.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Store) {
		s.cleanup = d
	}
}

// New creates a session store.
func New(opts ...Option) *Store {
	s := &Store{
		items:   make(map[string]entry),
		ttl:     2 * time.Hour,
		cleanup: 5 * time.Minute,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanup > 0 {
		go s.janitor()
	}
	return s
}

// Put stores a dataset and returns its fresh session id.
func (s *Store) Put(ds *mailer.Dataset) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = entry{dataset: ds, expiresAt: time.Now().Add(s.ttl)}
	return id
}

// Get returns the dataset for id, or false when the id is unknown or
// the session has expired.
func (s *Store) Get(id string) (*mailer.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.items, id)
		return nil, false
	}
	return e.dataset, true
}

// Close stops the janitor goroutine.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) janitor() {
	ticker := time.NewTicker(s.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.items {
				if now.After(e.expiresAt) {
					delete(s.items, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
