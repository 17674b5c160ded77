// Package cache implements the authoritative in-memory store: a
// mapping from key to record, with capacity/size limits, eviction, and
// expiration, backed by a recency index for LRU ordering.
package cache

import (
	"sync"
	"time"

	"github.com/armandparker/cachesrv/internal/lru"
)

// Limits bundles the engine's capacity invariants.
type Limits struct {
	MaxKeys       int
	MaxKeyBytes   int
	MaxValueBytes int
	MaxTotalBytes int64
}

// Record is the triple (bytes, flags, expires_at) stored under a key.
type Record struct {
	Bytes     []byte
	Flags     uint32
	ExpiresAt time.Time
}

// Outcome enumerates the result of a Set call.
type Outcome int

const (
	Stored Outcome = iota
	ErrValueTooLarge
	ErrCacheFull
)

// Engine is the process-wide cache singleton. All of store, recency,
// and totalBytes are guarded by mu, held for the entire duration of
// Set, Get, Delete, and SweepExpired, so every operation appears to
// take effect atomically at some point between invocation and
// completion (linearizable).
type Engine struct {
	mu         sync.Mutex
	store      map[string]*Record
	recency    *lru.Index
	totalBytes int64

	limits     Limits
	defaultTTL time.Duration

	stats *Stats

	now func() time.Time // overridable for tests
}

// New constructs an empty Engine with the given limits and default TTL.
func New(limits Limits, defaultTTL time.Duration) *Engine {
	return &Engine{
		store:      make(map[string]*Record),
		recency:    lru.New(),
		limits:     limits,
		defaultTTL: defaultTTL,
		stats:      NewStats(),
		now:        time.Now,
	}
}

// Stats exposes the engine's operation counters.
func (e *Engine) Stats() *Stats { return e.stats }

// Set inserts or replaces the record for key. The clientExpiration
// parameter is the client-supplied TTL seconds from the wire; zero
// means "use the server default" (see DESIGN.md open question #1).
func (e *Engine) Set(key string, data []byte, flags uint32, clientExpiration uint32) Outcome {
	if len(data) > e.limits.MaxValueBytes {
		return ErrValueTooLarge
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ttl := e.defaultTTL
	if clientExpiration > 0 {
		ttl = time.Duration(clientExpiration) * time.Second
	}
	rec := &Record{
		Bytes:     data,
		Flags:     flags,
		ExpiresAt: e.now().Add(ttl),
	}

	if old, exists := e.store[key]; exists {
		e.totalBytes -= int64(len(old.Bytes))
		e.store[key] = rec
		e.totalBytes += int64(len(data))
		e.recency.Touch(key)

		for e.totalBytes > e.limits.MaxTotalBytes {
			if !e.evictOne() {
				e.stats.evictionFailures.Inc()
				return ErrCacheFull
			}
		}
		// The loop above only evicts LRU keys; if key itself was the
		// sole survivor it can be the one evicted to fit the budget.
		if _, stillStored := e.store[key]; !stillStored {
			e.stats.evictionFailures.Inc()
			return ErrCacheFull
		}

		e.stats.sets.Inc()
		return Stored
	}

	if len(e.store) >= e.limits.MaxKeys {
		if !e.evictOne() {
			e.stats.evictionFailures.Inc()
			return ErrCacheFull
		}
	}

	for e.totalBytes+int64(len(data)) > e.limits.MaxTotalBytes {
		if !e.evictOne() {
			e.stats.evictionFailures.Inc()
			return ErrCacheFull
		}
	}

	e.store[key] = rec
	e.totalBytes += int64(len(data))
	e.recency.InsertMRU(key)
	e.stats.sets.Inc()
	return Stored
}

// evictOne removes the current LRU key. Returns false if the index is
// empty. Caller must hold mu.
func (e *Engine) evictOne() bool {
	victim, ok := e.recency.PeekLRU()
	if !ok {
		return false
	}
	e.removeLocked(victim)
	e.stats.evictions.Inc()
	return true
}

// removeLocked deletes key from store, recency, and totalBytes.
// Caller must hold mu.
func (e *Engine) removeLocked(key string) {
	rec, ok := e.store[key]
	if !ok {
		return
	}
	delete(e.store, key)
	e.recency.Remove(key)
	e.totalBytes -= int64(len(rec.Bytes))
}

// Get returns the record for key, or (nil, false) on miss or
// expiration. On hit, key is touched to MRU.
func (e *Engine) Get(key string) (*Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.store[key]
	if !ok {
		e.stats.misses.Inc()
		return nil, false
	}
	if !rec.ExpiresAt.After(e.now()) {
		e.removeLocked(key)
		e.stats.misses.Inc()
		return nil, false
	}
	e.recency.Touch(key)
	e.stats.hits.Inc()
	out := *rec
	return &out, true
}

// Delete removes key, returning true iff it existed.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.store[key]
	if ok {
		e.removeLocked(key)
		e.stats.deletes.Inc()
	}
	return ok
}

// Len returns the number of live keys. Used by tests and the sweeper.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.store)
}

// TotalBytes returns the current total value byte count.
func (e *Engine) TotalBytes() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalBytes
}
