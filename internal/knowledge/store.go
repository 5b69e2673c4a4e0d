// Package knowledge provides the append-only insight store the engine
// writes analysis findings to for cross-consumer visibility. Writes are
// best-effort and never awaited on the analysis path.
package knowledge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Insight kinds recorded by the engine.
const (
	KindSentimentAnalysis = "sentiment_analysis"
	KindBrandHealth       = "brand_health"
	KindReputationBrief   = "reputation_brief"
	KindEscalation        = "escalation"
)

// Insight is one append-only record shared with other consumers.
type Insight struct {
	ID        string          `json:"id" db:"id"`
	Source    string          `json:"source" db:"source"`
	Kind      string          `json:"kind" db:"kind"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NewInsight builds an insight record with a fresh id, marshaling the
// payload.
func NewInsight(source, kind string, payload any) (Insight, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Insight{}, err
	}
	return Insight{
		ID:        uuid.NewString(),
		Source:    source,
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Store is a generic append-only insight sink with bounded reads.
type Store interface {
	Append(ctx context.Context, insight Insight) error
	Recent(ctx context.Context, limit int) ([]Insight, error)
}
