package collab

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Broadcaster delivers best-effort, fire-and-forget notifications to
// optional collaborators. Failures are logged and never reach the caller;
// a rate limiter sheds bursts rather than queueing them.
type Broadcaster struct {
	registry *Registry
	limiter  *rate.Limiter
	wg       sync.WaitGroup
}

// NewBroadcaster creates a broadcaster allowing ratePerSec notifications
// with the given burst.
func NewBroadcaster(registry *Registry, ratePerSec float64, burst int) *Broadcaster {
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &Broadcaster{
		registry: registry,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// Notify sends a payload to the capability without awaiting the outcome.
// Missing capabilities and handler failures are logged and dropped.
func (b *Broadcaster) Notify(cap Capability, action string, payload any) {
	if !b.limiter.Allow() {
		log.Warn().Str("capability", string(cap)).Str("action", action).
			Msg("broadcast dropped by rate limiter")
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("capability", string(cap)).Msg("broadcast payload marshal failed")
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		resp, err := b.registry.Call(context.Background(), cap, Request{Action: action, Payload: raw})
		if err != nil {
			log.Warn().Err(err).Str("capability", string(cap)).Str("action", action).
				Msg("best-effort broadcast failed")
			return
		}
		if resp.Status != StatusSuccess {
			log.Warn().Str("capability", string(cap)).Str("action", action).
				Str("status", string(resp.Status)).Msg("broadcast not accepted")
		}
	}()
}

// Flush waits for in-flight broadcasts, for orderly shutdown and tests.
func (b *Broadcaster) Flush() {
	b.wg.Wait()
}
