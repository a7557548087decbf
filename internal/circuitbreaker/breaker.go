package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Skipping calls
	StateHalfOpen              // Trial call allowed
)

type CircuitBreaker struct {
	mutex            sync.Mutex
	state            State
	failures         int
	lastFailure      time.Time
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time
}

type Option func(*CircuitBreaker)

// WithClock replaces the clock used to measure the cooldown.
func WithClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) {
		cb.now = now
	}
}

// NewCircuitBreaker opens after threshold consecutive failures and stays open
// for cooldown. A threshold below 1 is treated as 1.
func NewCircuitBreaker(threshold int, cooldown time.Duration, opts ...Option) *CircuitBreaker {
	if threshold < 1 {
		threshold = 1
	}

	cb := &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: threshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// Allow reports whether a call may proceed. An open breaker moves to
// half-open once the cooldown has elapsed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.cooldown {
			cb.state = StateHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// Do runs fn when the breaker allows it and records the outcome. It returns
// ErrOpen without calling fn otherwise.
func (cb *CircuitBreaker) Do(fn func() error) error {
	if !cb.Allow() {
		return ErrOpen
	}

	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}

	cb.RecordSuccess()
	return nil
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()

	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.state = StateOpen
	}
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures = 0
	cb.state = StateClosed
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Failures returns the current run of consecutive failures.
func (cb *CircuitBreaker) Failures() int {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.failures
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}
