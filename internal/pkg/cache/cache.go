// Package cache provides the process-wide feed cache. It is deliberately an
// injectable service rather than an ambient singleton so tests can control
// TTL and invalidation deterministically. Invalidation is either time-based
// expiry or a full Clear; there is no per-entry invalidation.
package cache

import (
	"sync"
	"time"
)

// Store is the cache contract consumed by the feed service.
type Store interface {
	// Get returns the cached value for key, if present and not expired.
	Get(key string) (interface{}, bool)
	// Set stores value under key for the given TTL.
	Set(key string, value interface{}, ttl time.Duration)
	// Clear drops every entry; all subsequent reads are consistent again.
	Clear()
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Memory is an in-memory Store implementation. Expired entries are dropped
// lazily on access.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an in-memory cache using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates an in-memory cache with an injectable clock.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value stored under key, if it has not expired.
func (m *Memory) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock, another goroutine may have replaced it.
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key until ttl elapses. A non-positive ttl stores
// nothing.
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Clear drops all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

// Len reports the number of stored entries, including not-yet-collected
// expired ones.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
