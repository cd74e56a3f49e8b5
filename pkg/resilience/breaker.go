// Package resilience wraps outbound calls in a per-dependency circuit
// breaker, adapted from the teacher's HTTP-handler circuit breaker
// (internal/middleware/circuit_breaker.go) into a generic call wrapper:
// this engine's own inbound surface is transport-agnostic, so the breaker
// belongs around its outbound dependents instead of around an HTTP handler
// chain. The SPARQL client and the embedding service use it; chat-provider
// calls are not wrapped.
package resilience

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config mirrors the teacher's CircuitBreakerConfig fields.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns a breaker configuration suitable for a single
// outbound dependency (SPARQL endpoint, chat provider, or embedding
// provider).
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Breaker wraps a single outbound dependency.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// New creates a Breaker from Config.
func New(cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Breaker{cb: cb, logger: logger}
}

// Execute runs fn through the breaker. When the breaker is open, fn is not
// invoked and gobreaker.ErrOpenState is returned unchanged; it is not
// converted into a pkg/errors AppError.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// ExecuteCtx is Execute with a context-aware signature for call sites that
// want to short-circuit on cancellation before entering the breaker.
func ExecuteCtx[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return Execute(b, func() (T, error) { return fn(ctx) })
}
