package middleware

import "sync"

const (
	tripAfterFailures   = 5
	recoverAfterSuccess = 3
)

// storeBreaker tracks the health of the primary bucket store. It trips after
// tripAfterFailures consecutive errors and resets once the primary answers
// recoverAfterSuccess times in a row while tripped.
type storeBreaker struct {
	mu        sync.Mutex
	tripped   bool
	failures  int
	successes int
}

// observe records the outcome of one primary call and reports whether the
// breaker is tripped afterwards.
func (b *storeBreaker) observe(err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.successes = 0
		b.failures++
		if b.failures >= tripAfterFailures {
			b.tripped = true
		}
		return b.tripped
	}

	if !b.tripped {
		b.failures = 0
		return false
	}
	b.successes++
	if b.successes >= recoverAfterSuccess {
		b.tripped = false
		b.failures = 0
		b.successes = 0
	}
	return b.tripped
}
