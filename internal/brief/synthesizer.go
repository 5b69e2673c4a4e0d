package brief

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/sentiment"
)

// Trust score component weights. They sum to 100.
const (
	weightRating       = 30
	weightVelocity     = 15
	weightSentiment    = 25
	weightResponseRate = 15
	weightNPS          = 15
)

// velocityCeiling is the reviews/day rate that saturates the velocity
// component.
const velocityCeiling = 10.0

// Query actions issued to the three fan-out collaborators.
const (
	actionQueryReviewMetrics    = "query-review-metrics"
	actionQuerySentimentMetrics = "query-sentiment-metrics"
	actionQueryListingHealth    = "query-listing-health"
)

// previousBriefKey is the single cache slot for the prior brief.
const previousBriefKey = "previous"

// SynthesizerConfig holds brief-generation settings.
type SynthesizerConfig struct {
	CacheTTL       time.Duration `yaml:"cache_ttl"`       // 7 days
	MaxRecommended int           `yaml:"max_recommended"` // 6
}

// DefaultSynthesizerConfig returns production brief settings.
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		CacheTTL:       7 * 24 * time.Hour,
		MaxRecommended: 6,
	}
}

// Synthesizer fans out to the three metric collaborators, joins with
// all-settled semantics, and composes the trust score. The previous
// brief is cached per instance solely to compute trend; the read-then-
// write is deliberately non-atomic (last writer wins).
type Synthesizer struct {
	registry *collab.Registry
	cfg      SynthesizerConfig
	cache    *gocache.Cache
	now      func() time.Time
}

// NewSynthesizer creates a brief synthesizer.
func NewSynthesizer(registry *collab.Registry, cfg SynthesizerConfig) *Synthesizer {
	if cfg.CacheTTL == 0 {
		cfg = DefaultSynthesizerConfig()
	}
	return &Synthesizer{
		registry: registry,
		cfg:      cfg,
		cache:    gocache.New(cfg.CacheTTL, time.Hour),
		now:      time.Now,
	}
}

// branch is one settled fan-out outcome.
type branch struct {
	result SpecialistResult
	data   json.RawMessage
}

// Generate produces a fresh reputation brief. A failing collaborator
// branch yields nil data and a FAILED specialist result; it never aborts
// the other branches or the brief itself.
func (s *Synthesizer) Generate(ctx context.Context) (*Brief, error) {
	start := s.now()

	queries := []struct {
		capability collab.Capability
		action     string
	}{
		{collab.CapabilityReviewResponder, actionQueryReviewMetrics},
		{collab.CapabilityDeepSentiment, actionQuerySentimentMetrics},
		{collab.CapabilityListingOptimizer, actionQueryListingHealth},
	}

	branches := make([]branch, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, capability collab.Capability, action string) {
			defer wg.Done()
			branches[i] = s.query(ctx, capability, action)
		}(i, q.capability, q.action)
	}
	wg.Wait()

	b := &Brief{
		ID:          uuid.NewString(),
		GeneratedAt: start.UTC(),
		Specialists: make([]SpecialistResult, 0, len(branches)),
	}

	for i, br := range branches {
		b.Specialists = append(b.Specialists, br.result)
		if br.result.Status != collab.StatusSuccess {
			continue
		}
		switch queries[i].capability {
		case collab.CapabilityReviewResponder:
			b.ReviewMetrics = decodeInto[ReviewMetrics](br.data, &b.Specialists[i])
		case collab.CapabilityDeepSentiment:
			b.SentimentMap = decodeInto[SentimentMap](br.data, &b.Specialists[i])
		case collab.CapabilityListingOptimizer:
			b.GMBHealth = decodeInto[ListingHealth](br.data, &b.Specialists[i])
		}
	}
	successes := 0
	for _, sr := range b.Specialists {
		if sr.Status == collab.StatusSuccess {
			successes++
		}
	}
	b.Confidence = float64(successes) / float64(len(branches))

	components := s.components(b)
	overall := CompositeScore(components)

	b.TrustScore = TrustScore{
		Overall:    overall,
		Components: components,
		Trend:      s.trendAgainstPrevious(overall),
	}
	b.Recommendations = s.recommend(b)
	b.ExecutionTimeMs = s.now().Sub(start).Milliseconds()

	s.cache.Set(previousBriefKey, b, gocache.DefaultExpiration)

	log.Info().
		Int("trust_score", overall).
		Str("trend", string(b.TrustScore.Trend)).
		Float64("confidence", b.Confidence).
		Int64("execution_ms", b.ExecutionTimeMs).
		Msg("reputation brief generated")

	return b, nil
}

// query performs one collaborator round trip and settles its branch.
func (s *Synthesizer) query(ctx context.Context, capability collab.Capability, action string) branch {
	resp, err := s.registry.Call(ctx, capability, collab.Request{Action: action})
	if err != nil {
		log.Warn().Err(err).Str("capability", string(capability)).Msg("brief query failed")
		return branch{result: SpecialistResult{
			Specialist: capability,
			Status:     collab.StatusFailed,
			Error:      err.Error(),
		}}
	}
	if resp.Status != collab.StatusSuccess {
		return branch{result: SpecialistResult{
			Specialist: capability,
			Status:     collab.StatusFailed,
			Error:      resp.Error,
		}}
	}
	return branch{
		result: SpecialistResult{Specialist: capability, Status: collab.StatusSuccess},
		data:   resp.Data,
	}
}

// decodeInto unmarshals branch data, downgrading the branch to FAILED on
// a decode error.
func decodeInto[T any](raw json.RawMessage, result *SpecialistResult) *T {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		result.Status = collab.StatusFailed
		result.Error = "decode: " + err.Error()
		return nil
	}
	return &v
}

// components assembles trust inputs from whichever branches succeeded.
// Missing sources contribute zero values.
func (s *Synthesizer) components(b *Brief) TrustComponents {
	var c TrustComponents
	if b.ReviewMetrics != nil {
		c.AverageRating = b.ReviewMetrics.AverageRating
		c.ReviewVelocity = b.ReviewMetrics.ReviewVelocity
		c.ResponseRate = b.ReviewMetrics.ResponseRate
		c.NPS = b.ReviewMetrics.NPS
	}
	if b.SentimentMap != nil {
		c.SentimentScore = b.SentimentMap.Score
	}
	return c
}

// CompositeScore normalizes each component to [0,1] and applies the
// 30/15/25/15/15 weighting.
func CompositeScore(c TrustComponents) int {
	rating := c.AverageRating / 5
	velocity := math.Min(c.ReviewVelocity/velocityCeiling, 1)
	sent := float64(c.SentimentScore) / 100
	responseRate := c.ResponseRate / 100
	nps := (float64(c.NPS) + 100) / 200

	overall := weightRating*rating +
		weightVelocity*velocity +
		weightSentiment*sent +
		weightResponseRate*responseRate +
		weightNPS*nps

	return int(math.Round(overall))
}

// trendAgainstPrevious compares against the cached prior brief with a
// ±5 point hysteresis band. No prior brief reads as STABLE.
func (s *Synthesizer) trendAgainstPrevious(overall int) sentiment.Trend {
	prev, ok := s.cache.Get(previousBriefKey)
	if !ok {
		return sentiment.TrendStable
	}
	prior, ok := prev.(*Brief)
	if !ok {
		return sentiment.TrendStable
	}
	return sentiment.TrendOf(overall, prior.TrustScore.Overall)
}

// recommend evaluates the independent recommendation conditions and caps
// the output at MaxRecommended.
func (s *Synthesizer) recommend(b *Brief) []string {
	var recs []string

	if b.TrustScore.Overall < 50 {
		recs = append(recs, "trust score below 50: prioritize reputation recovery across all channels")
	}
	if b.ReviewMetrics != nil && b.ReviewMetrics.UnrepliedReviews > 10 {
		recs = append(recs, "unreplied review backlog exceeds 10: schedule a response sprint")
	}
	if b.ReviewMetrics != nil && b.ReviewMetrics.ResponseRate < 80 {
		recs = append(recs, "response rate below 80%: raise daily response quotas")
	}
	if b.SentimentMap != nil && b.SentimentMap.NegativePct > 30 {
		recs = append(recs, "negative sentiment above 30%: investigate recurring complaint themes")
	}
	if b.GMBHealth != nil && !b.GMBHealth.ProfileComplete {
		recs = append(recs, "listing profile incomplete: fill missing business attributes")
	}
	if b.GMBHealth != nil && b.GMBHealth.PostsLast30Days == 0 {
		recs = append(recs, "no listing posts in 30 days: resume a weekly posting cadence")
	}
	if b.SentimentMap != nil && b.SentimentMap.ActiveAlerts > 0 {
		recs = append(recs, "active reputation alerts outstanding: triage before next reporting cycle")
	}
	if b.ReviewMetrics != nil && b.ReviewMetrics.TotalReviews < 10 {
		recs = append(recs, "review volume thin: launch a review solicitation campaign")
	}

	if len(recs) > s.cfg.MaxRecommended {
		recs = recs[:s.cfg.MaxRecommended]
	}
	return recs
}
