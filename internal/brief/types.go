package brief

import (
	"time"

	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/sentiment"
)

// ReviewMetrics is the review-responder collaborator's reported state.
type ReviewMetrics struct {
	AverageRating    float64     `json:"average_rating"`
	ReviewVelocity   float64     `json:"review_velocity"` // reviews per day
	ResponseRate     float64     `json:"response_rate"`   // 0-100
	NPS              int         `json:"nps"`
	TotalReviews     int         `json:"total_reviews"`
	UnrepliedReviews int         `json:"unreplied_reviews"`
	StarDistribution map[int]int `json:"star_distribution,omitempty"`
}

// SentimentMap is the deep-sentiment collaborator's reported state.
type SentimentMap struct {
	Score        int `json:"score"` // 0-100
	PositivePct  int `json:"positive_pct"`
	NegativePct  int `json:"negative_pct"`
	ActiveAlerts int `json:"active_alerts"`
}

// ListingHealth is the listing-optimizer collaborator's reported state.
type ListingHealth struct {
	ProfileComplete bool    `json:"profile_complete"`
	PostsLast30Days int     `json:"posts_last_30_days"`
	PhotoCount      int     `json:"photo_count"`
	ListingRating   float64 `json:"listing_rating"`
}

// TrustComponents are the raw inputs to the composite trust score.
type TrustComponents struct {
	AverageRating  float64 `json:"average_rating"`
	ReviewVelocity float64 `json:"review_velocity"`
	SentimentScore int     `json:"sentiment_score"`
	ResponseRate   float64 `json:"response_rate"`
	NPS            int     `json:"nps"`
}

// TrustScore is the composite 0-100 assessment plus its inputs.
type TrustScore struct {
	Overall    int             `json:"overall"`
	Components TrustComponents `json:"components"`
	Trend      sentiment.Trend `json:"trend"`
}

// SpecialistResult records one collaborator branch's outcome in the
// brief's fan-out.
type SpecialistResult struct {
	Specialist collab.Capability `json:"specialist"`
	Status     collab.Status     `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// Brief is the on-demand composite reputation snapshot. It is immutable
// once returned; only the trend computation reads a cached prior brief.
type Brief struct {
	ID              string             `json:"id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	ExecutionTimeMs int64              `json:"execution_time_ms"`
	TrustScore      TrustScore         `json:"trust_score"`
	ReviewMetrics   *ReviewMetrics     `json:"review_metrics"`
	SentimentMap    *SentimentMap      `json:"sentiment_map"`
	GMBHealth       *ListingHealth     `json:"gmb_health"`
	Recommendations []string           `json:"recommendations"`
	Specialists     []SpecialistResult `json:"specialist_results"`
	Confidence      float64            `json:"confidence"` // 0-1, fraction of successful branches
}
