package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandguard/reputation/internal/collab"
	"github.com/brandguard/reputation/internal/delegation"
	"github.com/brandguard/reputation/internal/escalation"
	"github.com/brandguard/reputation/internal/knowledge"
	"github.com/brandguard/reputation/internal/sentiment"
	"github.com/brandguard/reputation/internal/signal"
)

// countingStub records calls and answers with a fixed response/error.
type countingStub struct {
	resp  *collab.Response
	err   error
	calls atomic.Int64
	last  atomic.Value // collab.Request
}

func (s *countingStub) Handle(_ context.Context, req collab.Request) (*collab.Response, error) {
	s.calls.Add(1)
	s.last.Store(req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func successStub() *countingStub {
	return &countingStub{resp: &collab.Response{Status: collab.StatusSuccess, Data: []byte(`{"drafted":true}`)}}
}

type testHarness struct {
	engine    *Engine
	responder *countingStub
	optimizer *countingStub
	deep      *countingStub
	outreach  *countingStub
	store     *knowledge.MemoryStore
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		responder: successStub(),
		optimizer: successStub(),
		deep:      successStub(),
		outreach:  successStub(),
		store:     knowledge.NewMemoryStore(100),
	}

	registry := collab.NewRegistry()
	registry.Register(collab.CapabilityReviewResponder, h.responder)
	registry.Register(collab.CapabilityListingOptimizer, h.optimizer)
	registry.Register(collab.CapabilityDeepSentiment, h.deep)
	registry.Register(collab.CapabilityOutreach, h.outreach)

	eng, err := New(DefaultConfig(), registry, h.store, nil)
	require.NoError(t, err)
	h.engine = eng
	return h
}

func TestNew_MissingRequiredCapability(t *testing.T) {
	registry := collab.NewRegistry()
	registry.Register(collab.CapabilityReviewResponder, successStub())

	_, err := New(DefaultConfig(), registry, nil, nil)
	assert.ErrorIs(t, err, collab.ErrMissingCapability)
}

func TestAnalyzeSentiment_EmptyBatch(t *testing.T) {
	h := newHarness(t)

	res := h.engine.Execute(context.Background(), AnalyzeSentiment{})
	require.Equal(t, resultCompleted, res.Status)
	require.NotNil(t, res.Report)

	analysis := res.Report.SentimentAnalysis
	require.NotNil(t, analysis)
	assert.Equal(t, 65, analysis.CurrentScore)
	assert.Equal(t, sentiment.LevelNeutral, analysis.Level)
	assert.Equal(t, sentiment.TrendStable, analysis.Trend)
	assert.Empty(t, res.Report.Delegations)
	assert.Empty(t, res.Report.Alerts)
}

func TestAnalyzeSentiment_CrisisPath(t *testing.T) {
	h := newHarness(t)

	batch := []signal.Signal{{
		Type:      signal.TypeReview,
		Sentiment: signal.SentimentNegative,
		Score:     80,
		Rating:    1,
		Platform:  "google",
		Timestamp: time.Now(),
	}}

	res := h.engine.Execute(context.Background(), AnalyzeSentiment{Signals: batch})
	require.Equal(t, resultCompleted, res.Status)
	report := res.Report

	assert.Equal(t, 30, report.SentimentAnalysis.CurrentScore)
	assert.Equal(t, sentiment.LevelCrisis, report.SentimentAnalysis.Level)

	// A crisis score must always carry a CRITICAL escalation.
	critical := 0
	for _, esc := range report.Escalations {
		if esc.Severity == escalation.SeverityCritical {
			critical++
			assert.Equal(t, escalation.TargetCMO, esc.Target)
		}
	}
	assert.Equal(t, 1, critical)

	// Crisis plans two critical delegations plus the negative-review handoff.
	assert.Len(t, report.Delegations, 3)
	assert.Contains(t, report.Alerts, "sentiment at crisis level")
	assert.NotNil(t, report.Strategy)
	assert.Equal(t, 100, report.Strategy.ReactivePercentage)
}

func TestAnalyzeSentiment_IsPureProposalPath(t *testing.T) {
	h := newHarness(t)

	batch := []signal.Signal{{
		Type: signal.TypeReview, Sentiment: signal.SentimentNegative,
		Score: 10, Rating: 1, Timestamp: time.Now(),
	}}
	h.engine.Execute(context.Background(), AnalyzeSentiment{Signals: batch})

	assert.Zero(t, h.responder.calls.Load(), "analysis only proposes, never calls collaborators")
	assert.Zero(t, h.optimizer.calls.Load())
}

func TestHandleReview_MissingPayload(t *testing.T) {
	h := newHarness(t)

	res := h.engine.Execute(context.Background(), HandleReview{})

	assert.Equal(t, resultFailed, res.Status)
	assert.Equal(t, "reviewData required for HANDLE_REVIEW", res.Message)
	assert.Zero(t, h.responder.calls.Load(), "no collaborator call on validation failure")
}

func TestHandleReview_ElevatesLowRatings(t *testing.T) {
	h := newHarness(t)

	res := h.engine.Execute(context.Background(), HandleReview{Review: &ReviewData{
		Platform: "google", Rating: 3, Content: "mediocre",
	}})

	require.Equal(t, resultCompleted, res.Status)
	require.Len(t, res.Report.Delegations, 1)
	rec := res.Report.Delegations[0]
	assert.Equal(t, delegation.PriorityHigh, rec.Priority, "rating <= 3 elevates priority")
	assert.Equal(t, delegation.StatusCompleted, rec.Status)
	assert.Equal(t, int64(1), h.responder.calls.Load())

	res = h.engine.Execute(context.Background(), HandleReview{Review: &ReviewData{
		Platform: "google", Rating: 4, Content: "nice",
	}})
	assert.Equal(t, delegation.PriorityNormal, res.Report.Delegations[0].Priority)
}

func TestHandleReview_CollaboratorFailureIsCaptured(t *testing.T) {
	h := newHarness(t)
	h.responder.err = errors.New("transport down")

	res := h.engine.Execute(context.Background(), HandleReview{Review: &ReviewData{Rating: 1}})

	assert.Equal(t, resultFailed, res.Status)
	require.Len(t, res.Report.Delegations, 1)
	assert.Equal(t, delegation.StatusFailed, res.Report.Delegations[0].Status)
	assert.Contains(t, res.Report.Delegations[0].Result, "transport down")
}

func TestHandleReview_BreakerOpenMapsToBlocked(t *testing.T) {
	registry := collab.NewRegistry()
	registry.Register(collab.CapabilityReviewResponder, &breakerOpenStub{})
	registry.Register(collab.CapabilityListingOptimizer, successStub())
	registry.Register(collab.CapabilityDeepSentiment, successStub())

	eng, err := New(DefaultConfig(), registry, nil, nil)
	require.NoError(t, err)

	res := eng.Execute(context.Background(), HandleReview{Review: &ReviewData{Rating: 2}})
	require.Len(t, res.Report.Delegations, 1)
	assert.Equal(t, delegation.StatusBlocked, res.Report.Delegations[0].Status)
}

type breakerOpenStub struct{}

func (breakerOpenStub) Handle(context.Context, collab.Request) (*collab.Response, error) {
	return nil, collab.ErrBreakerOpen
}

func TestHandleGMB_MissingPayload(t *testing.T) {
	h := newHarness(t)
	res := h.engine.Execute(context.Background(), HandleGMB{})
	assert.Equal(t, resultFailed, res.Status)
	assert.Equal(t, "gmbData required for HANDLE_GMB", res.Message)
	assert.Zero(t, h.optimizer.calls.Load())
}

func TestSolicitReview_FireAndForget(t *testing.T) {
	h := newHarness(t)

	res := h.engine.Execute(context.Background(), SolicitReview{Sale: &SaleData{
		CustomerID: "c-1", CustomerName: "A. Customer", CustomerEmail: "a@example.com",
	}})
	h.engine.Flush()

	assert.Equal(t, resultCompleted, res.Status)
	require.Len(t, res.Report.Delegations, 1)
	assert.Equal(t, delegation.StatusPending, res.Report.Delegations[0].Status)
	assert.Equal(t, int64(1), h.outreach.calls.Load())
}

func TestSolicitReview_MissingSale(t *testing.T) {
	h := newHarness(t)
	res := h.engine.Execute(context.Background(), SolicitReview{})
	assert.Equal(t, resultFailed, res.Status)
	assert.Equal(t, "saleData required for SOLICIT_REVIEW", res.Message)
}

func TestGenerateBrief_ReturnsBriefShape(t *testing.T) {
	h := newHarness(t)
	h.responder.resp = &collab.Response{Status: collab.StatusSuccess,
		Data: []byte(`{"average_rating":4.2,"review_velocity":2,"response_rate":88,"nps":45,"total_reviews":60}`)}
	h.deep.resp = &collab.Response{Status: collab.StatusSuccess, Data: []byte(`{"score":72}`)}
	h.optimizer.resp = &collab.Response{Status: collab.StatusSuccess,
		Data: []byte(`{"profile_complete":true,"posts_last_30_days":2}`)}

	res := h.engine.Execute(context.Background(), GenerateBrief{})

	require.Equal(t, resultCompleted, res.Status)
	require.NotNil(t, res.Brief)
	assert.Nil(t, res.Report)
	assert.InDelta(t, 1.0, res.Brief.Confidence, 1e-9)
	assert.Greater(t, res.Brief.TrustScore.Overall, 0)
}

func TestExecuteRaw_UnknownAction(t *testing.T) {
	h := newHarness(t)

	res := h.engine.ExecuteRaw(context.Background(), "DO_SOMETHING_ELSE", nil)

	assert.Equal(t, resultFailed, res.Status)
	assert.Contains(t, res.Message, "DO_SOMETHING_ELSE")
}

func TestExecuteRaw_ParsesEnvelope(t *testing.T) {
	h := newHarness(t)

	payload, err := json.Marshal(map[string]any{
		"reviewData": map[string]any{"platform": "google", "rating": 2, "content": "bad"},
	})
	require.NoError(t, err)

	res := h.engine.ExecuteRaw(context.Background(), ActionHandleReview, payload)
	assert.Equal(t, resultCompleted, res.Status)
	assert.Equal(t, int64(1), h.responder.calls.Load())
}

func TestParseAction_ClosedSet(t *testing.T) {
	for _, name := range []string{
		ActionAnalyzeSentiment, ActionCheckBrandHealth, ActionDetermineStrategy,
		ActionHandleReview, ActionHandleGMB, ActionGenerateResponse,
		ActionSolicitReview, ActionUpdateGMBProfile, ActionGenerateBrief,
	} {
		_, err := ParseAction(name, nil)
		assert.NoError(t, err, "action %s", name)
	}

	_, err := ParseAction("REBOOT", nil)
	var unknown *UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "REBOOT", unknown.Action)
	assert.ErrorIs(t, err, ErrUnknownAction)
}
