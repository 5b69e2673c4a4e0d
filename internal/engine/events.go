package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/brandguard/reputation/internal/signal"
)

// Event topics the engine consumes.
const (
	TopicSaleCompleted  = "sale.completed"
	TopicDealWon        = "deal.won"
	TopicWebhookReview  = "webhook.review.received"
	TopicReviewReceived = "review.received"
	TopicAlert          = "ALERT"
)

// AlertNegativeReview is the alert event name that triggers review
// handling.
const AlertNegativeReview = "NEGATIVE_REVIEW_DETECTED"

// alertEnvelope is the ALERT topic payload shape.
type alertEnvelope struct {
	Event  string               `json:"event"`
	Review *ReviewData          `json:"review,omitempty"`
	Alert  *signal.AlertPayload `json:"alert,omitempty"`
}

// HandleEvent routes an inbound event topic onto the action set:
// completed sales solicit reviews, received reviews get drafted
// responses (elevated priority for low ratings), and negative-review
// alerts trigger review handling.
func (e *Engine) HandleEvent(ctx context.Context, topic string, payload []byte) *Result {
	switch topic {
	case TopicSaleCompleted, TopicDealWon:
		var sale SaleData
		if err := json.Unmarshal(payload, &sale); err != nil {
			return eventFailure(topic, fmt.Errorf("decode sale payload: %w", err))
		}
		return e.Execute(ctx, SolicitReview{Sale: &sale})

	case TopicWebhookReview, TopicReviewReceived:
		var review ReviewData
		if err := json.Unmarshal(payload, &review); err != nil {
			return eventFailure(topic, fmt.Errorf("decode review payload: %w", err))
		}
		return e.Execute(ctx, GenerateResponse{Review: &review})

	case TopicAlert:
		var env alertEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return eventFailure(topic, fmt.Errorf("decode alert payload: %w", err))
		}
		if env.Event != AlertNegativeReview {
			log.Debug().Str("event", env.Event).Msg("alert event ignored")
			return &Result{Action: topic, Status: resultCompleted,
				Message: fmt.Sprintf("alert event %q not actionable", env.Event)}
		}
		return e.Execute(ctx, HandleReview{Review: env.Review})

	default:
		return eventFailure(topic, fmt.Errorf("unrecognized event topic %q", topic))
	}
}

func eventFailure(topic string, err error) *Result {
	log.Warn().Err(err).Str("topic", topic).Msg("event rejected")
	return &Result{Action: topic, Status: resultFailed, Message: err.Error()}
}
