package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpenCircuit is returned when the circuit breaker refuses a request.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// Breaker trips after a run of consecutive failures and recovers after a cool-off.
type Breaker struct {
	mu          sync.Mutex
	failures    int
	maxFailures int
	coolOff     time.Duration
	openedAt    time.Time
	now         func() time.Time
}

// NewBreaker constructs a breaker tripping after maxFailures consecutive failures.
func NewBreaker(maxFailures int, coolOff time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if coolOff <= 0 {
		coolOff = 30 * time.Second
	}
	return &Breaker{maxFailures: maxFailures, coolOff: coolOff, now: time.Now}
}

// Allow reports whether a request may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.maxFailures {
		return true
	}
	if b.now().Sub(b.openedAt) >= b.coolOff {
		// half-open: admit one probe
		b.failures = b.maxFailures - 1
		return true
	}
	return false
}

// Report records the outcome of a request.
func (b *Breaker) Report(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if success {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.openedAt = b.now()
	}
}
