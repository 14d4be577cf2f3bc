package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOpen is returned without invoking the wrapped call while the
// breaker is cooling down.
var ErrOpen = errors.New("circuit breaker open")

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	}
	return "unknown"
}

type Settings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker open.
	FailureThreshold int
	// CoolDown is how long the breaker stays open before allowing one
	// probe call through.
	CoolDown time.Duration
}

// CircuitBreaker trips after consecutive failures and lets a single
// probe through once the cool-down elapses. A successful probe closes
// it again; a failed one re-opens it.
type CircuitBreaker struct {
	name      string
	threshold int
	coolDown  time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

func New(settings Settings) *CircuitBreaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.CoolDown <= 0 {
		settings.CoolDown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:      settings.Name,
		threshold: settings.FailureThreshold,
		coolDown:  settings.CoolDown,
		state:     StateClosed,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

// State reports the breaker's current state for logging and health
// endpoints.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	if time.Since(cb.openedAt) >= cb.coolDown {
		cb.state = StateHalfOpen
		return nil
	}
	return fmt.Errorf("%s: %w", cb.name, ErrOpen)
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.threshold {
			cb.state = StateOpen
			cb.openedAt = time.Now()
		}
		return
	}

	cb.state = StateClosed
	cb.failures = 0
}
