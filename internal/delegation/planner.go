package delegation

import (
	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/sentiment"
	"github.com/brandguard/reputation/internal/signal"
)

// Priority ranks a delegation's urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityNormal   Priority = "NORMAL"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Status is the lifecycle state of a delegation.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusBlocked   Status = "BLOCKED"
	StatusPending   Status = "PENDING"
	StatusFailed    Status = "FAILED"
)

// Recommendation is a proposed or executed handoff to a collaborator.
type Recommendation struct {
	Specialist collab.Capability `json:"specialist"`
	Action     string            `json:"action"`
	Priority   Priority          `json:"priority"`
	Reason     string            `json:"reason"`
	Status     Status            `json:"status"`
	Result     string            `json:"result,omitempty"`
}

// highVolumeNegatives is the negative-review count above which the
// review-responder handoff becomes HIGH priority.
const highVolumeNegatives = 3

// Plan proposes delegations from the classified level and the signal mix.
// All proposals start PENDING; explicit action handlers execute the
// corresponding collaborator calls and settle the status.
func Plan(level sentiment.Level, signals []signal.Signal) []Recommendation {
	var recs []Recommendation

	if level == sentiment.LevelCrisis {
		recs = append(recs,
			Recommendation{
				Specialist: collab.CapabilityReviewResponder,
				Action:     "draft crisis response templates",
				Priority:   PriorityCritical,
				Reason:     "sentiment at crisis level",
				Status:     StatusPending,
			},
			Recommendation{
				Specialist: collab.CapabilityListingOptimizer,
				Action:     "check all locations for negative reviews",
				Priority:   PriorityCritical,
				Reason:     "sentiment at crisis level",
				Status:     StatusPending,
			},
		)
	}

	negatives := 0
	for _, sig := range signals {
		if sig.Type == signal.TypeReview && sig.Sentiment == signal.SentimentNegative {
			negatives++
		}
	}
	if negatives > 0 {
		priority := PriorityNormal
		if negatives > highVolumeNegatives {
			priority = PriorityHigh
		}
		recs = append(recs, Recommendation{
			Specialist: collab.CapabilityReviewResponder,
			Action:     "respond to negative reviews",
			Priority:   priority,
			Reason:     "negative reviews present in signal batch",
			Status:     StatusPending,
		})
	}

	if level == sentiment.LevelExcellent || level == sentiment.LevelPositive {
		recs = append(recs, Recommendation{
			Specialist: collab.CapabilityReviewResponder,
			Action:     "collect and feature positive reviews",
			Priority:   PriorityNormal,
			Reason:     "positive sentiment worth amplifying",
			Status:     StatusPending,
		})
	}

	return recs
}
