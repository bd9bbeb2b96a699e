// Package breaker builds the circuit breakers guarding outbound HTTP calls.
package breaker

import (
	"context"
	"time"

	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
	"github.com/sony/gobreaker"
)

// Defaults for outbound calls.
const (
	DefaultFailureRatio = 0.6
	DefaultTimeout      = 30 * time.Second
	minRequests         = 3
	halfOpenRequests    = 1
)

type settings struct {
	failureRatio float64
	timeout      time.Duration
	logger       logger.Logger
}

// Option configures a breaker.
type Option func(*settings)

// WithFailureRatio sets the failure ratio that opens the breaker once at
// least three requests were seen.
func WithFailureRatio(ratio float64) Option {
	return func(s *settings) {
		if ratio > 0 && ratio <= 1 {
			s.failureRatio = ratio
		}
	}
}

// WithTimeout sets how long the breaker stays open before probing again.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger receiving state changes.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a breaker named name. State changes are logged and exported
// through the breaker state gauge.
func New(name string, opts ...Option) *gobreaker.CircuitBreaker {
	s := &settings{failureRatio: DefaultFailureRatio, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	metrics.UpdateBreakerState(name, metrics.BreakerClosed)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenRequests,
		Timeout:     s.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= s.failureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			s.logger.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.UpdateBreakerState(name, stateValue(to))
		},
	})
}

func stateValue(st gobreaker.State) int {
	switch st {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}
