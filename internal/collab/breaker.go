package collab

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerConfig defines circuit breaker parameters for one capability.
type BreakerConfig struct {
	MaxRequests uint32        `yaml:"max_requests"` // probes allowed half-open
	Interval    time.Duration `yaml:"interval"`     // closed-state counter reset
	Timeout     time.Duration `yaml:"timeout"`      // how long to stay open
	MinRequests uint32        `yaml:"min_requests"` // samples before tripping
	FailureRate float64       `yaml:"failure_rate"` // trip threshold
}

// DefaultBreakerConfig returns production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

// BreakerCollaborator wraps a collaborator handle with a circuit breaker.
// A tripped breaker rejects calls locally instead of hammering a failing
// collaborator; the engine surfaces that as a BLOCKED outcome.
type BreakerCollaborator struct {
	inner   Collaborator
	breaker *gobreaker.CircuitBreaker
}

// WithBreaker wraps a collaborator in a named circuit breaker.
func WithBreaker(cap Capability, inner Collaborator, cfg BreakerConfig) *BreakerCollaborator {
	settings := gobreaker.Settings{
		Name:        string(cap),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("capability", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("collaborator breaker state change")
		},
	}

	return &BreakerCollaborator{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// ErrBreakerOpen reports a call rejected by an open breaker.
var ErrBreakerOpen = errors.New("collaborator circuit open")

// Handle forwards the request through the breaker. A non-SUCCESS response
// with a transport error counts as a failure toward tripping.
func (b *BreakerCollaborator) Handle(ctx context.Context, req Request) (*Response, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Handle(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrBreakerOpen
		}
		return nil, err
	}
	return out.(*Response), nil
}
