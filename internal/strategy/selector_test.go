package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandguard/reputation/internal/sentiment"
)

var allLevels = []sentiment.Level{
	sentiment.LevelCrisis,
	sentiment.LevelConcern,
	sentiment.LevelNeutral,
	sentiment.LevelPositive,
	sentiment.LevelExcellent,
}

func TestSelect_PostureSumsTo100(t *testing.T) {
	for _, level := range allLevels {
		st := Select(level, sentiment.TrendStable)
		assert.Equal(t, 100, st.ReactivePercentage+st.ProactivePercentage, "level %s", level)
	}
}

func TestSelect_Table(t *testing.T) {
	tests := []struct {
		level      sentiment.Level
		mode       Mode
		reactive   int
		monitoring time.Duration
		sla        time.Duration
	}{
		{sentiment.LevelCrisis, ModeCrisisResponse, 100, 30 * time.Minute, 2 * time.Hour},
		{sentiment.LevelConcern, ModeDamageControl, 80, 2 * time.Hour, 4 * time.Hour},
		{sentiment.LevelNeutral, ModeBalanced, 50, 4 * time.Hour, 24 * time.Hour},
		{sentiment.LevelPositive, ModeProactiveEngagement, 30, 8 * time.Hour, 24 * time.Hour},
		{sentiment.LevelExcellent, ModeAmplification, 20, 24 * time.Hour, 48 * time.Hour},
	}

	for _, tt := range tests {
		st := Select(tt.level, sentiment.TrendStable)
		assert.Equal(t, tt.mode, st.Mode, "level %s", tt.level)
		assert.Equal(t, tt.reactive, st.ReactivePercentage, "level %s", tt.level)
		assert.Equal(t, tt.monitoring, st.MonitoringFrequency, "level %s", tt.level)
		assert.Equal(t, tt.sla, st.ResponseSLA, "level %s", tt.level)
		assert.NotEmpty(t, st.ActionsRequired, "level %s", tt.level)
	}
}

func TestSelect_RationaleTrendClause(t *testing.T) {
	declining := Select(sentiment.LevelConcern, sentiment.TrendDeclining)
	assert.Contains(t, declining.Rationale, "increasing reactive focus")

	improving := Select(sentiment.LevelPositive, sentiment.TrendImproving)
	assert.Contains(t, improving.Rationale, "opportunity for proactive engagement")

	stable := Select(sentiment.LevelNeutral, sentiment.TrendStable)
	assert.NotContains(t, stable.Rationale, "reactive focus")
	assert.NotContains(t, stable.Rationale, "opportunity")
}

func TestSelect_DoesNotExposeTableStorage(t *testing.T) {
	first := Select(sentiment.LevelCrisis, sentiment.TrendStable)
	require.NotEmpty(t, first.ActionsRequired)
	first.ActionsRequired[0] = "mutated"

	second := Select(sentiment.LevelCrisis, sentiment.TrendStable)
	assert.NotEqual(t, "mutated", second.ActionsRequired[0])
}

func TestSelect_UnknownLevelFallsBackToNeutral(t *testing.T) {
	st := Select(sentiment.Level("BOGUS"), sentiment.TrendStable)
	assert.Equal(t, ModeBalanced, st.Mode)
}
