package confidence

import "math"

// Inputs carries the volumes the confidence estimate is built from.
type Inputs struct {
	SignalCount  int
	ReviewCount  int
	ResponseRate float64 // 0-100
}

// Signal-volume tier bonuses.
var signalTiers = []struct {
	min    int
	points float64
}{
	{50, 40},
	{20, 30},
	{10, 20},
	{5, 10},
}

// Review-count tier bonuses.
var reviewTiers = []struct {
	min    int
	points float64
}{
	{100, 30},
	{50, 20},
	{20, 10},
}

// responseRatePoints is the maximum contribution of the response rate.
const responseRatePoints = 30

// Estimate scores analysis reliability from signal and review volume,
// returning a 0.0-1.0 confidence. The raw sum is capped at 100 and
// rounded before division; keep that order.
func Estimate(in Inputs) float64 {
	var sum float64

	for _, tier := range signalTiers {
		if in.SignalCount >= tier.min {
			sum += tier.points
			break
		}
	}
	for _, tier := range reviewTiers {
		if in.ReviewCount >= tier.min {
			sum += tier.points
			break
		}
	}
	sum += responseRatePoints * in.ResponseRate / 100

	return math.Round(math.Min(100, sum)) / 100
}
