package strategy

import (
	"fmt"
	"time"

	"github.com/brandguard/reputation/internal/sentiment"
)

// Mode is the overall response posture for a severity level.
type Mode string

const (
	ModeCrisisResponse      Mode = "CRISIS_RESPONSE"
	ModeDamageControl       Mode = "DAMAGE_CONTROL"
	ModeBalanced            Mode = "BALANCED"
	ModeProactiveEngagement Mode = "PROACTIVE_ENGAGEMENT"
	ModeAmplification       Mode = "AMPLIFICATION"
)

// ResponseStrategy describes the posture, cadence, and SLA derived from a
// severity level. ReactivePercentage and ProactivePercentage always sum
// to 100.
type ResponseStrategy struct {
	Mode                Mode          `json:"mode"`
	Rationale           string        `json:"rationale"`
	ReactivePercentage  int           `json:"reactive_percentage"`
	ProactivePercentage int           `json:"proactive_percentage"`
	MonitoringFrequency time.Duration `json:"monitoring_frequency"`
	ResponseSLA         time.Duration `json:"response_sla"`
	ActionsRequired     []string      `json:"actions_required"`
}

// strategyTable is the fixed per-level lookup. Rationale is assembled at
// selection time so the trend clause can be appended.
var strategyTable = map[sentiment.Level]ResponseStrategy{
	sentiment.LevelCrisis: {
		Mode:                ModeCrisisResponse,
		ReactivePercentage:  100,
		ProactivePercentage: 0,
		MonitoringFrequency: 30 * time.Minute,
		ResponseSLA:         2 * time.Hour,
		ActionsRequired: []string{
			"respond to every negative review within SLA",
			"activate crisis communication plan",
			"brief leadership on reputation status",
			"pause scheduled promotional content",
		},
	},
	sentiment.LevelConcern: {
		Mode:                ModeDamageControl,
		ReactivePercentage:  80,
		ProactivePercentage: 20,
		MonitoringFrequency: 2 * time.Hour,
		ResponseSLA:         4 * time.Hour,
		ActionsRequired: []string{
			"prioritize responses to negative feedback",
			"identify recurring complaint themes",
			"prepare holding statements",
		},
	},
	sentiment.LevelNeutral: {
		Mode:                ModeBalanced,
		ReactivePercentage:  50,
		ProactivePercentage: 50,
		MonitoringFrequency: 4 * time.Hour,
		ResponseSLA:         24 * time.Hour,
		ActionsRequired: []string{
			"maintain steady response cadence",
			"solicit reviews from recent customers",
		},
	},
	sentiment.LevelPositive: {
		Mode:                ModeProactiveEngagement,
		ReactivePercentage:  30,
		ProactivePercentage: 70,
		MonitoringFrequency: 8 * time.Hour,
		ResponseSLA:         24 * time.Hour,
		ActionsRequired: []string{
			"amplify positive customer stories",
			"engage advocates and repeat reviewers",
		},
	},
	sentiment.LevelExcellent: {
		Mode:                ModeAmplification,
		ReactivePercentage:  20,
		ProactivePercentage: 80,
		MonitoringFrequency: 24 * time.Hour,
		ResponseSLA:         48 * time.Hour,
		ActionsRequired: []string{
			"feature top reviews in marketing channels",
			"publish reputation highlights",
		},
	},
}

// Select returns the response strategy for a level and trend. The trend
// appends a clause to the rationale; it never changes the posture table.
func Select(level sentiment.Level, trend sentiment.Trend) ResponseStrategy {
	st, ok := strategyTable[level]
	if !ok {
		st = strategyTable[sentiment.LevelNeutral]
		level = sentiment.LevelNeutral
	}

	// Copy the actions so callers cannot mutate the table.
	actions := make([]string, len(st.ActionsRequired))
	copy(actions, st.ActionsRequired)
	st.ActionsRequired = actions

	rationale := fmt.Sprintf("sentiment level %s calls for %s posture (%d%% reactive / %d%% proactive)",
		level, st.Mode, st.ReactivePercentage, st.ProactivePercentage)
	switch trend {
	case sentiment.TrendDeclining:
		rationale += "; declining trend, increasing reactive focus"
	case sentiment.TrendImproving:
		rationale += "; improving trend, opportunity for proactive engagement"
	}
	st.Rationale = rationale

	return st
}
