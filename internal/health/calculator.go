package health

import (
	"math"
	"time"

	"github.com/brandguard/reputation/internal/signal"
)

// Metrics summarizes brand health derived from review-type signals.
type Metrics struct {
	NPS              int         `json:"nps"`               // -100..100
	ReviewVelocity   float64     `json:"review_velocity"`   // reviews per day
	ResponseRate     float64     `json:"response_rate"`     // 0-100
	AverageRating    float64     `json:"average_rating"`    // 0-5
	StarDistribution map[int]int `json:"star_distribution"` // star -> percentage
	TotalReviews     int         `json:"total_reviews"`
	UnrepliedReviews int         `json:"unreplied_reviews"`
	LastUpdated      time.Time   `json:"last_updated"`
}

// CalculatorConfig holds the brand-health knobs and fallbacks.
type CalculatorConfig struct {
	VelocityWindowDays int     `yaml:"velocity_window_days"` // 7 - assumed batch span
	FallbackVelocity   float64 `yaml:"fallback_velocity"`    // 5 reviews/day with no data
	ResponseRate       float64 `yaml:"response_rate"`        // 85 - fixed on the live path
}

// DefaultCalculatorConfig returns production brand-health settings.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		VelocityWindowDays: 7,
		FallbackVelocity:   5,
		ResponseRate:       85,
	}
}

// fallbackDistribution is the star histogram assumed when no reviews are
// present, keyed by star count.
var fallbackDistribution = map[int]int{5: 60, 4: 25, 3: 8, 2: 4, 1: 3}

// Calculator derives brand-health metrics from raw signals. The response
// rate is a fixed constant on this path: actual reply tracking lives with
// the review-handling collaborator, not the engine.
type Calculator struct {
	cfg CalculatorConfig
	now func() time.Time
}

// NewCalculator creates a calculator; a zero-value config falls back to
// defaults.
func NewCalculator(cfg CalculatorConfig) *Calculator {
	if cfg.VelocityWindowDays == 0 {
		cfg = DefaultCalculatorConfig()
	}
	return &Calculator{cfg: cfg, now: time.Now}
}

// Calculate computes metrics over the review-type signals in the batch.
func (c *Calculator) Calculate(signals []signal.Signal) Metrics {
	m := Metrics{
		ResponseRate:     c.cfg.ResponseRate,
		StarDistribution: make(map[int]int, 5),
		LastUpdated:      c.now().UTC(),
	}

	var reviews []signal.Signal
	for _, sig := range signals {
		if sig.IsReview() {
			reviews = append(reviews, sig)
		}
	}
	m.TotalReviews = len(reviews)

	if len(reviews) == 0 {
		m.ReviewVelocity = c.cfg.FallbackVelocity
		for star, pctVal := range fallbackDistribution {
			m.StarDistribution[star] = pctVal
		}
		return m
	}

	var promoters, detractors, ratingSum int
	starCounts := make(map[int]int, 5)
	for _, r := range reviews {
		ratingSum += r.Rating
		starCounts[r.Rating]++
		switch {
		case r.Rating >= 4:
			promoters++
		case r.Rating <= 2:
			detractors++
		}
	}

	total := len(reviews)
	m.NPS = int(math.Round(float64(promoters-detractors) / float64(total) * 100))
	m.ReviewVelocity = float64(total) / float64(c.cfg.VelocityWindowDays)
	m.AverageRating = float64(ratingSum) / float64(total)
	for star := 1; star <= 5; star++ {
		m.StarDistribution[star] = int(math.Round(float64(starCounts[star]) / float64(total) * 100))
	}
	m.UnrepliedReviews = int(math.Round(float64(total) * (1 - m.ResponseRate/100)))

	return m
}
