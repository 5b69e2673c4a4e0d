package engine

import (
	"encoding/json"
	"fmt"

	"github.com/brandguard/reputation/internal/signal"
)

// Wire names of the closed action set.
const (
	ActionAnalyzeSentiment  = "ANALYZE_SENTIMENT"
	ActionCheckBrandHealth  = "CHECK_BRAND_HEALTH"
	ActionDetermineStrategy = "DETERMINE_STRATEGY"
	ActionHandleReview      = "HANDLE_REVIEW"
	ActionHandleGMB         = "HANDLE_GMB"
	ActionGenerateResponse  = "GENERATE_RESPONSE"
	ActionSolicitReview     = "SOLICIT_REVIEW"
	ActionUpdateGMBProfile  = "UPDATE_GMB_PROFILE"
	ActionGenerateBrief     = "GENERATE_BRIEF"
)

// Action is the sealed command set the engine executes. One struct per
// wire action; dispatch is an exhaustive type switch, so a new action
// cannot silently fall through to a default branch.
type Action interface {
	name() string
}

// ReviewData is the review payload attached to review-handling actions.
type ReviewData struct {
	Platform string `json:"platform"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
	Author   string `json:"author,omitempty"`
	URL      string `json:"url,omitempty"`
	ReviewID string `json:"reviewId,omitempty"`
}

// GMBData is the business-profile payload attached to listing actions.
type GMBData struct {
	Location string   `json:"location"`
	Issue    string   `json:"issue"`
	Priority string   `json:"priority"`
	Action   string   `json:"action,omitempty"`
	Assets   []string `json:"assets,omitempty"`
}

// SaleData is the completed-sale payload driving review solicitation.
type SaleData = signal.SalePayload

// AnalyzeSentiment runs the full analysis pipeline over a signal batch.
// PreviousScore is the caller-supplied prior score; nil means no history
// and the baseline constant is used.
type AnalyzeSentiment struct {
	Signals       []signal.Signal
	PreviousScore *int
}

// CheckBrandHealth computes brand-health metrics plus their escalations.
type CheckBrandHealth struct {
	Signals []signal.Signal
}

// DetermineStrategy classifies the batch and selects a response strategy.
type DetermineStrategy struct {
	Signals       []signal.Signal
	PreviousScore *int
}

// HandleReview hands a review to the review-responder collaborator.
type HandleReview struct {
	Review *ReviewData
}

// HandleGMB hands a listing issue to the listing-optimizer collaborator.
type HandleGMB struct {
	GMB *GMBData
}

// GenerateResponse asks the review-responder to draft a reply.
type GenerateResponse struct {
	Review *ReviewData
}

// SolicitReview fires a best-effort solicitation to the outreach
// collaborator.
type SolicitReview struct {
	Sale *SaleData
}

// UpdateGMBProfile pushes a profile update through the listing optimizer
// and notifies the content collaborator.
type UpdateGMBProfile struct {
	GMB *GMBData
}

// GenerateBrief synthesizes the composite trust-score brief.
type GenerateBrief struct{}

func (AnalyzeSentiment) name() string  { return ActionAnalyzeSentiment }
func (CheckBrandHealth) name() string  { return ActionCheckBrandHealth }
func (DetermineStrategy) name() string { return ActionDetermineStrategy }
func (HandleReview) name() string      { return ActionHandleReview }
func (HandleGMB) name() string         { return ActionHandleGMB }
func (GenerateResponse) name() string  { return ActionGenerateResponse }
func (SolicitReview) name() string     { return ActionSolicitReview }
func (UpdateGMBProfile) name() string  { return ActionUpdateGMBProfile }
func (GenerateBrief) name() string     { return ActionGenerateBrief }

// actionEnvelope is the wire payload shape shared by all actions.
type actionEnvelope struct {
	Signals       []signal.Signal `json:"signals,omitempty"`
	PreviousScore *int            `json:"previousScore,omitempty"`
	ReviewData    *ReviewData     `json:"reviewData,omitempty"`
	GMBData       *GMBData        `json:"gmbData,omitempty"`
	SaleData      *SaleData       `json:"saleData,omitempty"`
}

// ParseAction maps a wire action string and payload onto the typed
// action set. Unknown strings yield an UnknownActionError.
func ParseAction(action string, payload []byte) (Action, error) {
	var env actionEnvelope
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("decode payload for %s: %w", action, err)
		}
	}

	switch action {
	case ActionAnalyzeSentiment:
		return AnalyzeSentiment{Signals: env.Signals, PreviousScore: env.PreviousScore}, nil
	case ActionCheckBrandHealth:
		return CheckBrandHealth{Signals: env.Signals}, nil
	case ActionDetermineStrategy:
		return DetermineStrategy{Signals: env.Signals, PreviousScore: env.PreviousScore}, nil
	case ActionHandleReview:
		return HandleReview{Review: env.ReviewData}, nil
	case ActionHandleGMB:
		return HandleGMB{GMB: env.GMBData}, nil
	case ActionGenerateResponse:
		return GenerateResponse{Review: env.ReviewData}, nil
	case ActionSolicitReview:
		return SolicitReview{Sale: env.SaleData}, nil
	case ActionUpdateGMBProfile:
		return UpdateGMBProfile{GMB: env.GMBData}, nil
	case ActionGenerateBrief:
		return GenerateBrief{}, nil
	default:
		return nil, &UnknownActionError{Action: action}
	}
}
