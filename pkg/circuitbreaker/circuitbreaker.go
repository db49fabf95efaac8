package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

type Settings struct {
	Name string
	// MaxFailures consecutive failures trip the breaker.
	MaxFailures uint32
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// IsFailure decides which errors count against the breaker. Nil counts all.
	IsFailure func(error) bool
	OnChange  func(name string, from, to string)
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	st := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	if settings.IsFailure != nil {
		isFailure := settings.IsFailure
		st.IsSuccessful = func(err error) bool {
			return err == nil || !isFailure(err)
		}
	}
	if settings.OnChange != nil {
		onChange := settings.OnChange
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, from.String(), to.String())
		}
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(st)}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	_, err := cb.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// State reports "closed", "half-open" or "open".
func (cb *CircuitBreaker) State() string {
	return cb.cb.State().String()
}
