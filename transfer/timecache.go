package transfer

import "time"

// timeCache remembers keys until ttl after they were first added. It has no lock and no
// goroutine: the owner serializes calls and reclaims memory by calling Sweep periodically.
type timeCache[K comparable] struct {
	ttl       time.Duration
	deadlines map[K]time.Time
}

func newTimeCache[K comparable](ttl time.Duration) *timeCache[K] {
	return &timeCache[K]{
		ttl:       ttl,
		deadlines: make(map[K]time.Time),
	}
}

// Has reports whether key was added and has not expired at now, swept or not
func (tc *timeCache[K]) Has(key K, now time.Time) bool {
	deadline, ok := tc.deadlines[key]
	return ok && now.Before(deadline)
}

// Add remembers key from now on. A key that is still live keeps its original deadline.
func (tc *timeCache[K]) Add(key K, now time.Time) {
	if tc.Has(key, now) {
		return
	}
	tc.deadlines[key] = now.Add(tc.ttl)
}

// Sweep forgets the keys expired at now and returns how many there were
func (tc *timeCache[K]) Sweep(now time.Time) int {
	removed := 0
	for key, deadline := range tc.deadlines {
		if !now.Before(deadline) {
			delete(tc.deadlines, key)
			removed++
		}
	}
	return removed
}

func (tc *timeCache[K]) Len() int {
	return len(tc.deadlines)
}
