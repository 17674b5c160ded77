package cache

import "math/rand/v2"

// SweepExpired samples up to sampleSize keys from the recency index
// and deletes any that are past expiry. Sampling order is
// non-deterministic across invocations. Returns the number of keys
// removed.
func (e *Engine) SweepExpired(sampleSize int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sampleSize <= 0 || len(e.store) == 0 {
		return 0
	}

	keys := e.recency.Keys()
	n := sampleSize
	if n > len(keys) {
		n = len(keys)
	}

	now := e.now()
	removed := 0
	// Fisher-Yates partial shuffle picks n distinct random keys
	// without allocating a full permutation.
	for i := 0; i < n; i++ {
		j := i + rand.IntN(len(keys)-i)
		keys[i], keys[j] = keys[j], keys[i]

		key := keys[i]
		rec, ok := e.store[key]
		if !ok {
			continue
		}
		if !rec.ExpiresAt.After(now) {
			e.removeLocked(key)
			removed++
		}
	}
	return removed
}
