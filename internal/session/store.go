package session

import (
	"sync"
	"time"
)

// Message is one exchanged turn in a thread's conversation history.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

type entry struct {
	history   []Message
	updatedAt time.Time
}

// Store maps a thread key to its conversation history. Entries expire a fixed
// TTL after their last write; expiry is checked lazily on Get, there is no
// background sweep. The store never grows past its capacity: a Put over
// capacity evicts the entry with the oldest last-write time.
//
// Concurrent Put calls for the same key are last-write-wins.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// New creates a store with the given TTL and capacity. Capacity must be at
// least 1.
func New(ttl time.Duration, capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns a copy of the history for key. An absent or expired entry is a
// miss; an expired entry is removed on the way out.
func (s *Store) Get(key string) ([]Message, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	if ok && s.now().Sub(e.updatedAt) <= s.ttl {
		out := make([]Message, len(e.history))
		copy(out, e.history)
		s.mu.RUnlock()
		return out, true
	}
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	// Expired: drop it unless another goroutine refreshed it meanwhile.
	s.mu.Lock()
	if cur, ok := s.entries[key]; ok && s.now().Sub(cur.updatedAt) > s.ttl {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil, false
}

// Put inserts or replaces the history for key and resets its expiry clock.
// When the store is at capacity the entry with the oldest last write is
// evicted to make room.
func (s *Store) Put(key string, history []Message) {
	stored := make([]Message, len(history))
	copy(stored, history)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[key] = &entry{history: stored, updatedAt: s.now()}
}

// Len returns the number of entries currently held, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range s.entries {
		if first || e.updatedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.updatedAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestKey)
	}
}
