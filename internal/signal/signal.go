package signal

import (
	"time"
)

// Type identifies the kind of brand-perception signal.
type Type string

const (
	TypeReview   Type = "REVIEW"
	TypeMention  Type = "MENTION"
	TypeComment  Type = "COMMENT"
	TypeFeedback Type = "FEEDBACK"
)

// Sentiment is the polarity assigned to a signal at ingestion.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// Signal is a single normalized brand-perception event. Signals are
// immutable once normalized; the engine never mutates or persists them.
type Signal struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Type      Type      `json:"type"`
	Sentiment Sentiment `json:"sentiment"`
	Score     int       `json:"score"` // 0-100 raw perception score
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating,omitempty"` // 1-5, reviews only
	Platform  string    `json:"platform,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsReview reports whether the signal is a review carrying a rating.
func (s Signal) IsReview() bool {
	return s.Type == TypeReview && s.Rating >= 1 && s.Rating <= 5
}

// Recent reports whether the signal falls inside the recency window
// ending at now.
func (s Signal) Recent(now time.Time, window time.Duration) bool {
	return now.Sub(s.Timestamp) <= window
}
