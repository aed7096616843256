package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("model backend unavailable (circuit open)")

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	Name string

	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32

	// Cooldown is how long the breaker stays open before a trial call.
	Cooldown time.Duration
}

// BreakerGenerator fails fast after repeated upstream failures.
// It never retries; a rejected call is just another failure for the caller.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// Compile-time check that BreakerGenerator implements Generator.
var _ Generator = (*BreakerGenerator)(nil)

// NewBreakerGenerator wraps next with a circuit breaker.
func NewBreakerGenerator(next Generator, cfg BreakerConfig, logger *slog.Logger) *BreakerGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations say nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerGenerator{next: next, cb: cb}
}

// Model returns the wrapped model name.
func (b *BreakerGenerator) Model() string {
	return b.next.Model()
}

// Generate forwards to the wrapped generator unless the breaker is open.
func (b *BreakerGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Generate(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Response{}, fmt.Errorf("%w: %w", ErrRequestFailed, ErrCircuitOpen)
	}
	if err != nil {
		return Response{}, err
	}
	return out.(Response), nil
}

// State returns the breaker state name.
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}
