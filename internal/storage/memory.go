package storage

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type memoryEntry struct {
	artifact  *Artifact
	expiresAt time.Time
}

// MemoryStore keeps artifacts in process memory for a limited time.
// A zero TTL keeps them until Close.
type MemoryStore struct {
	mu       sync.RWMutex
	store    map[string]*memoryEntry
	latestID string
	ttl      time.Duration
	now      func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		store: make(map[string]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		go s.cleanup(cleanupInterval)
	}
	return s
}

func (s *MemoryStore) Save(_ context.Context, a *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &memoryEntry{artifact: a}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.store[a.ID] = e
	s.latestID = a.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

func (s *MemoryStore) Latest(_ context.Context) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestID == "" {
		return nil, ErrNotFound
	}
	return s.lookup(s.latestID)
}

// lookup must be called with s.mu held.
func (s *MemoryStore) lookup(id string) (*Artifact, error) {
	e, ok := s.store[id]
	if !ok || s.expired(e, s.now()) {
		return nil, ErrNotFound
	}
	return e.artifact, nil
}

func (s *MemoryStore) expired(e *memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Close stops the cleanup goroutine and drops all artifacts.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]*memoryEntry)
	s.latestID = ""
	return nil
}

// cleanup periodically removes expired entries
func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.store {
		if s.expired(e, now) {
			delete(s.store, id)
		}
	}
}
