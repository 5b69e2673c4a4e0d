package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Capability identifies a named collaborator the engine can hand work to.
type Capability string

const (
	// CapabilityReviewResponder drafts and posts review responses.
	CapabilityReviewResponder Capability = "review-responder"
	// CapabilityListingOptimizer maintains local business-profile listings.
	CapabilityListingOptimizer Capability = "listing-optimizer"
	// CapabilityDeepSentiment runs heavyweight sentiment analysis.
	CapabilityDeepSentiment Capability = "deep-sentiment"
	// CapabilityOutreach sends review solicitations to customers.
	CapabilityOutreach Capability = "outreach"
	// CapabilityContent publishes marketing and listing content.
	CapabilityContent Capability = "content"
)

// Status is the outcome of a collaborator call.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusBlocked Status = "BLOCKED"
	StatusFailed  Status = "FAILED"
)

// Request is one unit of work handed to a collaborator.
type Request struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is a collaborator's answer to a Request.
type Response struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Collaborator is a handle to one capability. Implementations own their
// transport, including any timeout enforcement; the engine never imposes
// deadlines beyond the caller's context.
type Collaborator interface {
	Handle(ctx context.Context, req Request) (*Response, error)
}

// ErrMissingCapability indicates a required capability was never
// registered.
var ErrMissingCapability = errors.New("capability not registered")

// MissingCapabilityError wraps ErrMissingCapability with the capability id.
type MissingCapabilityError struct {
	Capability Capability
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("capability %q not registered", e.Capability)
}

func (e *MissingCapabilityError) Unwrap() error { return ErrMissingCapability }
