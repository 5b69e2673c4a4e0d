package escalation

// Severity ranks how urgently an escalation target must be notified.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Escalation targets outside the automated engine.
const (
	TargetCMO      = "L3_CMO"
	TargetDirector = "L3_DIRECTOR"
)

// Recommendation asks a human tier to step in.
type Recommendation struct {
	Target          string   `json:"target"`
	Reason          string   `json:"reason"`
	Severity        Severity `json:"severity"`
	RequiredActions []string `json:"required_actions"`
}

// Inputs carries the metrics the escalation rules inspect.
type Inputs struct {
	SentimentScore int
	ResponseRate   float64
	NPS            int
}

// Rule thresholds. Each rule is independent and non-exclusive; all
// matching rules fire on every call with no dedup or cooldown state;
// deduping across repeated invocations is the caller's job.
const (
	crisisScoreMax      = 30
	responseRateMin     = 80
	npsHealthyThreshold = 30
)

// Evaluate runs every escalation rule against the inputs and returns all
// matches. A sentiment score <= 30 always yields a CRITICAL escalation to
// the CMO tier; that rule must never be dropped.
func Evaluate(in Inputs) []Recommendation {
	var recs []Recommendation

	if in.SentimentScore <= crisisScoreMax {
		recs = append(recs, Recommendation{
			Target:   TargetCMO,
			Reason:   "sentiment score at crisis level",
			Severity: SeverityCritical,
			RequiredActions: []string{
				"review crisis management plan",
				"approve crisis communications",
				"consider legal and PR counsel",
				"switch to hourly monitoring",
			},
		})
	}

	if in.ResponseRate < responseRateMin {
		recs = append(recs, Recommendation{
			Target:   TargetDirector,
			Reason:   "review response rate below threshold",
			Severity: SeverityHigh,
			RequiredActions: []string{
				"allocate staff to the review backlog",
				"set daily response quotas",
				"audit response templates",
			},
		})
	}

	if in.NPS > 0 && in.NPS < npsHealthyThreshold {
		recs = append(recs, Recommendation{
			Target:   TargetDirector,
			Reason:   "NPS below healthy threshold",
			Severity: SeverityMedium,
			RequiredActions: []string{
				"survey detractors for root causes",
				"review recent product or service changes",
				"schedule NPS deep-dive with ops",
			},
		})
	}

	return recs
}
