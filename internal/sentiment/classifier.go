package sentiment

// Level is the severity classification of an aggregate sentiment score.
type Level string

const (
	LevelCrisis    Level = "CRISIS"
	LevelConcern   Level = "CONCERN"
	LevelNeutral   Level = "NEUTRAL"
	LevelPositive  Level = "POSITIVE"
	LevelExcellent Level = "EXCELLENT"
)

// Classify maps a 0-100 sentiment score onto one of five contiguous
// severity bands. The bands partition [0,100] with no gaps or overlap.
func Classify(score int) Level {
	switch {
	case score <= 30:
		return LevelCrisis
	case score <= 50:
		return LevelConcern
	case score <= 65:
		return LevelNeutral
	case score <= 80:
		return LevelPositive
	default:
		return LevelExcellent
	}
}

// Trend describes the direction of sentiment movement between two scores.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// trendHysteresis is the dead band around zero diff that reads as STABLE.
const trendHysteresis = 5

// TrendOf compares a current score against a previous one with a ±5 point
// hysteresis band.
func TrendOf(current, previous int) Trend {
	diff := current - previous
	switch {
	case diff > trendHysteresis:
		return TrendImproving
	case diff < -trendHysteresis:
		return TrendDeclining
	default:
		return TrendStable
	}
}
