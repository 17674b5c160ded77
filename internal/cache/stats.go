package cache

import "go.uber.org/atomic"

// Stats tracks lock-free operation counters for the engine, mirroring
// the teacher's ServerStats but backed by go.uber.org/atomic instead
// of a mutex-guarded struct.
type Stats struct {
	sets             atomic.Uint64
	hits             atomic.Uint64
	misses           atomic.Uint64
	deletes          atomic.Uint64
	evictions        atomic.Uint64
	evictionFailures atomic.Uint64
}

// NewStats returns a zeroed Stats.
func NewStats() *Stats {
	return &Stats{}
}

// Snapshot is a copy of the counters. Each counter is loaded
// atomically on its own, so taking one concurrently with further
// updates is safe, but the values are not read at one single instant.
type Snapshot struct {
	Sets             uint64
	Hits             uint64
	Misses           uint64
	Deletes          uint64
	Evictions        uint64
	EvictionFailures uint64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Sets:             s.sets.Load(),
		Hits:             s.hits.Load(),
		Misses:           s.misses.Load(),
		Deletes:          s.deletes.Load(),
		Evictions:        s.evictions.Load(),
		EvictionFailures: s.evictionFailures.Load(),
	}
}
