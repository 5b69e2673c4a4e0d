package sentiment

import (
	"math"
	"strings"
	"time"

	"github.com/brandguard/reputation/internal/signal"
)

// BaselineScore is the score assumed when no signals (or no history) are
// available. It sits inside the NEUTRAL band.
const BaselineScore = 65

// Breakdown holds the percentage split of signals by polarity. The three
// fields sum to 100 (up to rounding).
type Breakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Analysis is the derived sentiment value for one signal batch. It is
// recomputed fresh on every call and never retained by the engine.
type Analysis struct {
	CurrentScore   int       `json:"current_score"`
	PreviousScore  int       `json:"previous_score"`
	Trend          Trend     `json:"trend"`
	Level          Level     `json:"level"`
	Breakdown      Breakdown `json:"breakdown"`
	RecentMentions int       `json:"recent_mentions"`
	LastUpdated    time.Time `json:"last_updated"`
}

// ScorerConfig holds the weighting knobs for sentiment aggregation.
type ScorerConfig struct {
	RecencyWindowDays int     `yaml:"recency_window_days"` // 7
	RecencyWeight     float64 `yaml:"recency_weight"`      // 2.0 inside the window
	PlatformKeyword   string  `yaml:"platform_keyword"`    // "google"
	PlatformWeight    float64 `yaml:"platform_weight"`     // 1.5 on keyword match
	PositiveLift      int     `yaml:"positive_lift"`       // +20, capped at 100
	NegativePenalty   int     `yaml:"negative_penalty"`    // -50, floored at 0
}

// DefaultScorerConfig returns production scoring weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		RecencyWindowDays: 7,
		RecencyWeight:     2.0,
		PlatformKeyword:   "google",
		PlatformWeight:    1.5,
		PositiveLift:      20,
		NegativePenalty:   50,
	}
}

// Scorer aggregates a signal batch into a single weighted sentiment score.
// Scoring is pure: the same batch and previous score always yield the
// same Analysis (modulo LastUpdated).
type Scorer struct {
	cfg ScorerConfig
	now func() time.Time
}

// NewScorer creates a scorer with the given config. A zero-value config
// falls back to defaults.
func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.RecencyWindowDays == 0 {
		cfg = DefaultScorerConfig()
	}
	return &Scorer{cfg: cfg, now: time.Now}
}

// Score computes the weighted sentiment analysis for a batch. previous is
// the caller-supplied prior score; callers without history pass
// BaselineScore. An empty batch returns the fixed baseline analysis.
func (s *Scorer) Score(signals []signal.Signal, previous int) Analysis {
	now := s.now().UTC()

	if len(signals) == 0 {
		return Analysis{
			CurrentScore:  BaselineScore,
			PreviousScore: previous,
			Trend:         TrendStable,
			Level:         LevelNeutral,
			Breakdown:     Breakdown{Positive: 50, Neutral: 30, Negative: 20},
			LastUpdated:   now,
		}
	}

	window := time.Duration(s.cfg.RecencyWindowDays) * 24 * time.Hour

	var weightedSum, totalWeight float64
	var positive, neutral, negative, recent int

	for _, sig := range signals {
		weight := 1.0
		if sig.Recent(now, window) {
			weight = s.cfg.RecencyWeight
			recent++
		}
		if strings.Contains(strings.ToLower(sig.Platform), s.cfg.PlatformKeyword) {
			weight *= s.cfg.PlatformWeight
		}

		adjusted := sig.Score
		switch sig.Sentiment {
		case signal.SentimentNegative:
			adjusted -= s.cfg.NegativePenalty
			if adjusted < 0 {
				adjusted = 0
			}
			negative++
		case signal.SentimentPositive:
			adjusted += s.cfg.PositiveLift
			if adjusted > 100 {
				adjusted = 100
			}
			positive++
		default:
			neutral++
		}

		weightedSum += float64(adjusted) * weight
		totalWeight += weight
	}

	current := int(math.Round(weightedSum / totalWeight))
	total := len(signals)

	return Analysis{
		CurrentScore:  current,
		PreviousScore: previous,
		Trend:         TrendOf(current, previous),
		Level:         Classify(current),
		Breakdown: Breakdown{
			Positive: pct(positive, total),
			Neutral:  pct(neutral, total),
			Negative: pct(negative, total),
		},
		RecentMentions: recent,
		LastUpdated:    now,
	}
}

func pct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
