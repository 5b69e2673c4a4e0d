package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brandguard/reputation/internal/brief"
	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/confidence"
	"github.com/brandguard/reputation/internal/delegation"
	"github.com/brandguard/reputation/internal/escalation"
	"github.com/brandguard/reputation/internal/health"
	"github.com/brandguard/reputation/internal/knowledge"
	"github.com/brandguard/reputation/internal/metrics"
	"github.com/brandguard/reputation/internal/sentiment"
	"github.com/brandguard/reputation/internal/signal"
	"github.com/brandguard/reputation/internal/strategy"
)

// Report is the analysis output shape shared by every action except
// GENERATE_BRIEF.
type Report struct {
	SentimentAnalysis *sentiment.Analysis         `json:"sentiment_analysis,omitempty"`
	BrandHealth       *health.Metrics             `json:"brand_health_metrics,omitempty"`
	Strategy          *strategy.ResponseStrategy  `json:"response_strategy,omitempty"`
	Delegations       []delegation.Recommendation `json:"delegations"`
	Escalations       []escalation.Recommendation `json:"escalations"`
	Recommendations   []string                    `json:"recommendations"`
	Alerts            []string                    `json:"alerts"`
	Confidence        float64                     `json:"confidence"`
}

// Result is the structured outcome of one engine action. Nothing the
// engine does is fatal to the host: every code path settles into one of
// these.
type Result struct {
	Action  string       `json:"action"`
	Status  string       `json:"status"` // COMPLETED or FAILED
	Message string       `json:"message,omitempty"`
	Report  *Report      `json:"report,omitempty"`
	Brief   *brief.Brief `json:"brief,omitempty"`
}

const (
	resultCompleted = "COMPLETED"
	resultFailed    = "FAILED"
)

// Config assembles the engine's component configs.
type Config struct {
	Scorer         sentiment.ScorerConfig  `yaml:"scorer"`
	Health         health.CalculatorConfig `yaml:"health"`
	Brief          brief.SynthesizerConfig `yaml:"brief"`
	Breaker        collab.BreakerConfig    `yaml:"breaker"`
	BroadcastRate  float64                 `yaml:"broadcast_rate"`
	BroadcastBurst int                     `yaml:"broadcast_burst"`
}

// DefaultConfig returns production engine settings.
func DefaultConfig() Config {
	return Config{
		Scorer:         sentiment.DefaultScorerConfig(),
		Health:         health.DefaultCalculatorConfig(),
		Brief:          brief.DefaultSynthesizerConfig(),
		Breaker:        collab.DefaultBreakerConfig(),
		BroadcastRate:  10,
		BroadcastBurst: 20,
	}
}

// Engine is the reputation strategy engine. The host constructs exactly
// one per process and passes it by reference; the only mutable state
// across calls is the synthesizer's previous-brief cache.
type Engine struct {
	cfg         Config
	scorer      *sentiment.Scorer
	health      *health.Calculator
	registry    *collab.Registry
	broadcaster *collab.Broadcaster
	synthesizer *brief.Synthesizer
	store       knowledge.Store
	metrics     *metrics.Registry
}

// New wires the engine from its collaborator registry and insight store.
// The registry must already hold the required capabilities; metrics may
// be nil.
func New(cfg Config, registry *collab.Registry, store knowledge.Store, m *metrics.Registry) (*Engine, error) {
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = knowledge.NewMemoryStore(0)
	}

	return &Engine{
		cfg:         cfg,
		scorer:      sentiment.NewScorer(cfg.Scorer),
		health:      health.NewCalculator(cfg.Health),
		registry:    registry,
		broadcaster: collab.NewBroadcaster(registry, cfg.BroadcastRate, cfg.BroadcastBurst),
		synthesizer: brief.NewSynthesizer(registry, cfg.Brief),
		store:       store,
		metrics:     m,
	}, nil
}

// Execute runs one action to a structured result. Collaborator failures
// settle into delegation entries; validation failures settle into FAILED
// results. No code path panics or returns a bare error to the host.
func (e *Engine) Execute(ctx context.Context, action Action) *Result {
	var res *Result

	switch a := action.(type) {
	case AnalyzeSentiment:
		res = e.analyzeSentiment(ctx, a.Signals, a.PreviousScore)
	case CheckBrandHealth:
		res = e.checkBrandHealth(a.Signals)
	case DetermineStrategy:
		res = e.determineStrategy(a.Signals, a.PreviousScore)
	case HandleReview:
		res = e.handleReview(ctx, a.Review)
	case HandleGMB:
		res = e.handleGMB(ctx, a.GMB)
	case GenerateResponse:
		res = e.generateResponse(ctx, a.Review)
	case SolicitReview:
		res = e.solicitReview(a.Sale)
	case UpdateGMBProfile:
		res = e.updateGMBProfile(ctx, a.GMB)
	case GenerateBrief:
		res = e.generateBrief(ctx)
	default:
		// Unreachable with the sealed set; kept so a future variant
		// fails loudly instead of silently succeeding.
		res = &Result{Action: action.name(), Status: resultFailed,
			Message: (&UnknownActionError{Action: action.name()}).Error()}
	}

	if e.metrics != nil {
		e.metrics.AnalysesTotal.WithLabelValues(res.Action, res.Status).Inc()
	}
	return res
}

// ExecuteRaw parses a wire command and executes it. Unknown actions and
// malformed payloads become FAILED results.
func (e *Engine) ExecuteRaw(ctx context.Context, action string, payload []byte) *Result {
	parsed, err := ParseAction(action, payload)
	if err != nil {
		if e.metrics != nil {
			e.metrics.AnalysesTotal.WithLabelValues(action, resultFailed).Inc()
		}
		return &Result{Action: action, Status: resultFailed, Message: err.Error()}
	}
	return e.Execute(ctx, parsed)
}

// analyzeSentiment runs the full pipeline: score, classify, strategy,
// health, escalations, delegations, confidence.
func (e *Engine) analyzeSentiment(ctx context.Context, signals []signal.Signal, previous *int) *Result {
	report := e.buildReport(signals, previous)

	e.writeInsight(knowledge.KindSentimentAnalysis, report)

	return &Result{Action: ActionAnalyzeSentiment, Status: resultCompleted, Report: report}
}

func (e *Engine) checkBrandHealth(signals []signal.Signal) *Result {
	m := e.health.Calculate(signals)

	analysis := e.scorer.Score(signals, sentiment.BaselineScore)
	escalations := e.evaluateEscalations(analysis.CurrentScore, m)

	report := &Report{
		BrandHealth:     &m,
		Escalations:     escalations,
		Delegations:     []delegation.Recommendation{},
		Recommendations: []string{},
		Alerts:          []string{},
		Confidence: confidence.Estimate(confidence.Inputs{
			SignalCount:  len(signals),
			ReviewCount:  m.TotalReviews,
			ResponseRate: m.ResponseRate,
		}),
	}

	e.writeInsight(knowledge.KindBrandHealth, report)

	return &Result{Action: ActionCheckBrandHealth, Status: resultCompleted, Report: report}
}

func (e *Engine) determineStrategy(signals []signal.Signal, previous *int) *Result {
	report := e.buildReport(signals, previous)
	return &Result{Action: ActionDetermineStrategy, Status: resultCompleted, Report: report}
}

// buildReport assembles the shared analysis report from a signal batch.
func (e *Engine) buildReport(signals []signal.Signal, previous *int) *Report {
	prev := sentiment.BaselineScore
	if previous != nil {
		prev = *previous
	}

	analysis := e.scorer.Score(signals, prev)
	healthMetrics := e.health.Calculate(signals)
	st := strategy.Select(analysis.Level, analysis.Trend)
	escalations := e.evaluateEscalations(analysis.CurrentScore, healthMetrics)
	delegations := delegation.Plan(analysis.Level, signals)

	conf := confidence.Estimate(confidence.Inputs{
		SignalCount:  len(signals),
		ReviewCount:  healthMetrics.TotalReviews,
		ResponseRate: healthMetrics.ResponseRate,
	})

	var alerts []string
	if analysis.Level == sentiment.LevelCrisis {
		alerts = append(alerts, "sentiment at crisis level")
	}
	negatives := 0
	for _, sig := range signals {
		if sig.Type == signal.TypeReview && sig.Sentiment == signal.SentimentNegative {
			negatives++
		}
	}
	if negatives > 3 {
		alerts = append(alerts, "high volume of negative reviews")
	}
	if alerts == nil {
		alerts = []string{}
	}

	recommendations := []string{st.Rationale}
	for _, esc := range escalations {
		recommendations = append(recommendations, "escalate to "+esc.Target+": "+esc.Reason)
	}

	return &Report{
		SentimentAnalysis: &analysis,
		BrandHealth:       &healthMetrics,
		Strategy:          &st,
		Delegations:       delegations,
		Escalations:       escalations,
		Recommendations:   recommendations,
		Alerts:            alerts,
		Confidence:        conf,
	}
}

// evaluateEscalations runs the rule set and enforces the invariant that
// a crisis-level score always carries a CRITICAL escalation.
func (e *Engine) evaluateEscalations(score int, m health.Metrics) []escalation.Recommendation {
	recs := escalation.Evaluate(escalation.Inputs{
		SentimentScore: score,
		ResponseRate:   m.ResponseRate,
		NPS:            m.NPS,
	})

	if score <= 30 && !hasCritical(recs) {
		// The rule set must never drop this; re-evaluate with only the
		// crisis input to recover the mandatory escalation.
		crisis := escalation.Evaluate(escalation.Inputs{SentimentScore: score, ResponseRate: 100})
		recs = append(recs, crisis...)
		log.Error().Int("score", score).Msg("critical escalation missing from rule output, injected")
	}

	if e.metrics != nil {
		for _, rec := range recs {
			e.metrics.EscalationsTotal.WithLabelValues(string(rec.Severity)).Inc()
		}
	}
	return recs
}

func hasCritical(recs []escalation.Recommendation) bool {
	for _, r := range recs {
		if r.Severity == escalation.SeverityCritical {
			return true
		}
	}
	return false
}

func (e *Engine) handleReview(ctx context.Context, review *ReviewData) *Result {
	if review == nil {
		return e.validationFailure("reviewData", ActionHandleReview)
	}
	rec := e.callCollaborator(ctx, collab.CapabilityReviewResponder, "respond-to-review", review,
		reviewPriority(review.Rating), "negative review requires handling")
	return delegationResult(ActionHandleReview, rec)
}

func (e *Engine) handleGMB(ctx context.Context, gmb *GMBData) *Result {
	if gmb == nil {
		return e.validationFailure("gmbData", ActionHandleGMB)
	}
	rec := e.callCollaborator(ctx, collab.CapabilityListingOptimizer, "optimize-listing", gmb,
		delegation.PriorityNormal, "listing issue reported: "+gmb.Issue)
	return delegationResult(ActionHandleGMB, rec)
}

func (e *Engine) generateResponse(ctx context.Context, review *ReviewData) *Result {
	if review == nil {
		return e.validationFailure("reviewData", ActionGenerateResponse)
	}
	rec := e.callCollaborator(ctx, collab.CapabilityReviewResponder, "generate-response", review,
		reviewPriority(review.Rating), "draft response for incoming review")
	return delegationResult(ActionGenerateResponse, rec)
}

func (e *Engine) solicitReview(sale *SaleData) *Result {
	if sale == nil {
		return e.validationFailure("saleData", ActionSolicitReview)
	}

	e.broadcaster.Notify(collab.CapabilityOutreach, "solicit-review", sale)

	report := &Report{
		Delegations: []delegation.Recommendation{{
			Specialist: collab.CapabilityOutreach,
			Action:     "solicit-review",
			Priority:   delegation.PriorityNormal,
			Reason:     "completed sale eligible for review request",
			Status:     delegation.StatusPending,
			Result:     "solicitation dispatched, best effort",
		}},
		Escalations:     []escalation.Recommendation{},
		Recommendations: []string{},
		Alerts:          []string{},
	}
	return &Result{Action: ActionSolicitReview, Status: resultCompleted, Report: report}
}

func (e *Engine) updateGMBProfile(ctx context.Context, gmb *GMBData) *Result {
	if gmb == nil {
		return e.validationFailure("gmbData", ActionUpdateGMBProfile)
	}

	rec := e.callCollaborator(ctx, collab.CapabilityListingOptimizer, "update-profile", gmb,
		delegation.PriorityNormal, "profile update requested")

	// Marketing visibility of listing changes is best-effort only.
	e.broadcaster.Notify(collab.CapabilityContent, "listing-updated", gmb)

	return delegationResult(ActionUpdateGMBProfile, rec)
}

func (e *Engine) generateBrief(ctx context.Context) *Result {
	start := time.Now()
	b, err := e.synthesizer.Generate(ctx)
	if e.metrics != nil {
		e.metrics.BriefDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return &Result{Action: ActionGenerateBrief, Status: resultFailed, Message: err.Error()}
	}

	e.writeInsight(knowledge.KindReputationBrief, b)

	return &Result{Action: ActionGenerateBrief, Status: resultCompleted, Brief: b}
}

// callCollaborator performs one synchronous round trip and translates
// the outcome into a settled delegation record. Errors never escape.
func (e *Engine) callCollaborator(ctx context.Context, capability collab.Capability, action string,
	payload any, priority delegation.Priority, reason string) delegation.Recommendation {

	rec := delegation.Recommendation{
		Specialist: capability,
		Action:     action,
		Priority:   priority,
		Reason:     reason,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		rec.Status = delegation.StatusFailed
		rec.Result = "payload marshal: " + err.Error()
		return rec
	}

	resp, err := e.registry.Call(ctx, capability, collab.Request{Action: action, Payload: raw})
	status := settle(&rec, resp, err)
	if e.metrics != nil {
		e.metrics.CollaboratorCalls.WithLabelValues(string(capability), status).Inc()
	}
	if rec.Status != delegation.StatusCompleted {
		log.Warn().Str("capability", string(capability)).Str("action", action).
			Str("status", string(rec.Status)).Str("result", rec.Result).
			Msg("collaborator call did not complete")
	}
	return rec
}

// settle maps a collaborator response/error pair onto a delegation
// status.
func settle(rec *delegation.Recommendation, resp *collab.Response, err error) string {
	switch {
	case errors.Is(err, collab.ErrBreakerOpen):
		rec.Status = delegation.StatusBlocked
		rec.Result = "collaborator circuit open"
	case err != nil:
		rec.Status = delegation.StatusFailed
		rec.Result = err.Error()
	case resp.Status == collab.StatusBlocked:
		rec.Status = delegation.StatusBlocked
		rec.Result = resp.Error
	case resp.Status == collab.StatusFailed:
		rec.Status = delegation.StatusFailed
		rec.Result = resp.Error
	default:
		rec.Status = delegation.StatusCompleted
		rec.Result = string(resp.Data)
	}
	return string(rec.Status)
}

// reviewPriority elevates handling for low-rated reviews. The <= 3
// threshold is distinct from the <= 2 sentiment threshold on purpose.
func reviewPriority(rating int) delegation.Priority {
	if rating > 0 && rating <= signal.PriorityRatingMax {
		return delegation.PriorityHigh
	}
	return delegation.PriorityNormal
}

func delegationResult(action string, rec delegation.Recommendation) *Result {
	status := resultCompleted
	if rec.Status == delegation.StatusFailed {
		status = resultFailed
	}
	return &Result{
		Action:  action,
		Status:  status,
		Message: rec.Result,
		Report: &Report{
			Delegations:     []delegation.Recommendation{rec},
			Escalations:     []escalation.Recommendation{},
			Recommendations: []string{},
			Alerts:          []string{},
		},
	}
}

func (e *Engine) validationFailure(field, action string) *Result {
	err := &ValidationError{Field: field, Action: action}
	return &Result{Action: action, Status: resultFailed, Message: err.Error()}
}

// writeInsight appends a record to the knowledge store without awaiting
// it. Failures are logged and counted, never surfaced.
func (e *Engine) writeInsight(kind string, payload any) {
	insight, err := knowledge.NewInsight("reputation-engine", kind, payload)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("insight marshal failed")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.Append(ctx, insight); err != nil {
			if e.metrics != nil {
				e.metrics.InsightWriteFails.Inc()
			}
			log.Warn().Err(err).Str("kind", kind).Msg("insight write failed")
		}
	}()
}

// Flush waits for outstanding best-effort broadcasts; intended for
// shutdown and tests.
func (e *Engine) Flush() {
	e.broadcaster.Flush()
}
