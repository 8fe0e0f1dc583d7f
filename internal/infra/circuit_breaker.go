package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards calls to a flaky dependency (the redis event queue). While open,
// calls fail fast instead of stalling the request that triggered them.
//
//   - Closed:    calls pass through
//   - Open:      calls fail immediately with ErrCircuitOpen
//   - Half-Open: probe calls pass; enough successes close the breaker

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the CB is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures to trip open
	SuccessThreshold int           // consecutive half-open successes to close
	OpenTimeout      time.Duration // time spent open before probing
}

func DefaultCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

type CircuitBreaker struct {
	mu               sync.Mutex
	name             string
	state            CBState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	now              func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:             cfg.Name,
		state:            CBClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
		now:              time.Now,
	}
}

// State returns the current state, moving open → half-open once the timeout elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

func (cb *CircuitBreaker) currentLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.lastFailureTime) >= cb.openTimeout {
		cb.setStateLocked(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn through the breaker.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	state := cb.currentLocked()
	cb.mu.Unlock()

	if state == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailureLocked()
		return err
	}
	cb.onSuccessLocked()
	return nil
}

func (cb *CircuitBreaker) onFailureLocked() {
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case CBClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.setStateLocked(CBOpen)
		}
	case CBHalfOpen:
		cb.setStateLocked(CBOpen)
	}
}

func (cb *CircuitBreaker) onSuccessLocked() {
	switch cb.state {
	case CBClosed:
		cb.failureCount = 0
	case CBHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.setStateLocked(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) setStateLocked(next CBState) {
	if cb.state == next {
		return
	}
	log.Warn().Str("breaker", cb.name).Str("from", cb.state.String()).Str("to", next.String()).Msg("circuit breaker state change")
	cb.state = next
	cb.failureCount = 0
	cb.successCount = 0
}
