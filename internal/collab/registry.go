package collab

import (
	"context"

	"github.com/rs/zerolog/log"
)

// requiredCapabilities must be present for the engine to operate. The
// remaining capabilities are optional: a missing one is logged and
// skipped, and the engine continues with a partial collaborator set.
var requiredCapabilities = []Capability{
	CapabilityReviewResponder,
	CapabilityListingOptimizer,
	CapabilityDeepSentiment,
}

// Registry is the dependency-injected capability map, populated once at
// startup. Lookups never mutate it.
type Registry struct {
	handles map[Capability]Collaborator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[Capability]Collaborator)}
}

// Register binds a capability to a collaborator handle. Re-registering a
// capability replaces the previous handle.
func (r *Registry) Register(cap Capability, c Collaborator) {
	r.handles[cap] = c
}

// Validate checks that every required capability is registered and logs
// a skip for each absent optional one. It returns a typed error naming
// the first missing required capability.
func (r *Registry) Validate() error {
	for _, cap := range requiredCapabilities {
		if _, ok := r.handles[cap]; !ok {
			return &MissingCapabilityError{Capability: cap}
		}
	}
	for _, cap := range []Capability{CapabilityOutreach, CapabilityContent} {
		if _, ok := r.handles[cap]; !ok {
			log.Warn().Str("capability", string(cap)).Msg("optional capability not registered, continuing without it")
		}
	}
	return nil
}

// Lookup returns the handle for a capability.
func (r *Registry) Lookup(cap Capability) (Collaborator, error) {
	c, ok := r.handles[cap]
	if !ok {
		return nil, &MissingCapabilityError{Capability: cap}
	}
	return c, nil
}

// Call performs one synchronous request/response round trip to the named
// capability. Transport errors are returned as-is for the call site to
// translate into a delegation outcome.
func (r *Registry) Call(ctx context.Context, cap Capability, req Request) (*Response, error) {
	c, err := r.Lookup(cap)
	if err != nil {
		return nil, err
	}
	return c.Handle(ctx, req)
}
