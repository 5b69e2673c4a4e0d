package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandguard/reputation/internal/signal"
)

func review(rating int) signal.Signal {
	return signal.Signal{
		Type:      signal.TypeReview,
		Rating:    rating,
		Sentiment: signal.SentimentFromRating(rating),
		Timestamp: time.Now(),
	}
}

func TestCalculate_NoReviewsFallbacks(t *testing.T) {
	c := NewCalculator(DefaultCalculatorConfig())

	m := c.Calculate([]signal.Signal{
		{Type: signal.TypeMention, Sentiment: signal.SentimentNeutral, Score: 50},
	})

	assert.Zero(t, m.TotalReviews)
	assert.Zero(t, m.NPS)
	assert.Equal(t, 5.0, m.ReviewVelocity, "historical baseline velocity")
	assert.Equal(t, 85.0, m.ResponseRate)
	assert.Zero(t, m.AverageRating)

	// The fallback star distribution must match exactly.
	assert.Equal(t, map[int]int{5: 60, 4: 25, 3: 8, 2: 4, 1: 3}, m.StarDistribution)
}

func TestCalculate_NPSAndAverages(t *testing.T) {
	c := NewCalculator(DefaultCalculatorConfig())

	// 6 promoters (>=4), 2 detractors (<=2), 2 passive
	batch := []signal.Signal{
		review(5), review(5), review(5), review(4), review(4), review(4),
		review(3), review(3),
		review(2), review(1),
	}

	m := c.Calculate(batch)

	require.Equal(t, 10, m.TotalReviews)
	assert.Equal(t, 40, m.NPS, "(6-2)/10*100")
	assert.InDelta(t, 10.0/7.0, m.ReviewVelocity, 1e-9)
	assert.InDelta(t, 3.6, m.AverageRating, 1e-9)

	assert.Equal(t, 30, m.StarDistribution[5])
	assert.Equal(t, 30, m.StarDistribution[4])
	assert.Equal(t, 20, m.StarDistribution[3])
	assert.Equal(t, 10, m.StarDistribution[2])
	assert.Equal(t, 10, m.StarDistribution[1])

	// round(10 * (1 - 85/100)) = round(1.5) = 2
	assert.Equal(t, 2, m.UnrepliedReviews)
}

func TestCalculate_IgnoresNonReviewSignals(t *testing.T) {
	c := NewCalculator(DefaultCalculatorConfig())

	batch := []signal.Signal{
		review(5),
		{Type: signal.TypeMention, Sentiment: signal.SentimentNegative, Score: 10},
		{Type: signal.TypeReview}, // review without rating does not count
	}

	m := c.Calculate(batch)

	assert.Equal(t, 1, m.TotalReviews)
	assert.Equal(t, 100, m.NPS)
	assert.Equal(t, 5.0, m.AverageRating)
}
