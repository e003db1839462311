// Package resilience provides reliability patterns for calls to external
// infrastructure such as the message broker.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker is a circuit breaker. Consecutive failures past a threshold trip
// it open; after a cooldown a single probe call decides whether it closes
// again. A tripped breaker fails fast instead of stacking up timeouts on a
// dead dependency.
type Breaker struct {
	mu        sync.Mutex
	state     state
	failures  int
	threshold int
	cooldown  time.Duration
	trippedAt time.Time
	clock     func() time.Time
}

// NewBreaker creates a breaker that trips after threshold consecutive
// failures and probes again after the cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		clock:     time.Now,
	}
}

// Execute runs fn unless the breaker is open.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	b.record(err)
	return err
}

// State reports the breaker state for health reporting.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if b.clock().Sub(b.trippedAt) < b.cooldown {
			return false
		}
		b.state = stateHalfOpen
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != stateClosed {
			slog.Info("circuit breaker closed")
		}
		b.failures = 0
		b.state = stateClosed
		return
	}

	b.failures++
	// A half-open probe failure reopens immediately.
	if b.state == stateHalfOpen || b.failures >= b.threshold {
		if b.state != stateOpen {
			slog.Warn("circuit breaker tripped", "failures", b.failures)
		}
		b.state = stateOpen
		b.trippedAt = b.clock()
	}
}
