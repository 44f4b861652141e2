// Package memory provides an in-process state backend for development and tests.
package memory

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store implements the store.Client interface in memory.
// Nothing survives a restart, so the durable scope is only durable for the process lifetime.
type Store struct {
	entries map[string]entry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a new in-memory store that reads time from now.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.expired(s.now()) {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value. A ttl of 0 stores the key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = e
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	delete(s.entries, key)
	return !e.expired(s.now()), nil
}

// DeletePattern removes all keys matching the given glob pattern.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var deleted int64
	for key, e := range s.entries {
		if ok, _ := path.Match(pattern, key); !ok {
			continue
		}
		delete(s.entries, key)
		if !e.expired(now) {
			deleted++
		}
	}
	return deleted, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
