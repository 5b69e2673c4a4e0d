package signal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rating thresholds used at ingestion. SentimentFromRating classifies
// rating <= 2 as NEGATIVE; the separate PriorityRatingMax (<= 3) gates
// priority elevation in review handling. The two thresholds are
// intentionally distinct; do not unify them.
const (
	negativeRatingMax = 2
	neutralRating     = 3

	// PriorityRatingMax is the highest rating that still elevates a
	// review to priority handling.
	PriorityRatingMax = 3
)

// SentimentFromRating infers polarity from a 1-5 star rating.
func SentimentFromRating(rating int) Sentiment {
	switch {
	case rating <= negativeRatingMax:
		return SentimentNegative
	case rating == neutralRating:
		return SentimentNeutral
	default:
		return SentimentPositive
	}
}

// ReviewPayload is the review-received webhook shape.
type ReviewPayload struct {
	Platform string    `json:"platform"`
	Rating   int       `json:"rating"`
	Content  string    `json:"content"`
	Author   string    `json:"author,omitempty"`
	URL      string    `json:"url,omitempty"`
	ReviewID string    `json:"reviewId,omitempty"`
	Received time.Time `json:"received,omitempty"`
}

// AlertPayload is the monitoring-alert event shape.
type AlertPayload struct {
	Event     string    `json:"event"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Platform  string    `json:"platform,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// SalePayload is the sale-completed event shape.
type SalePayload struct {
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	PurchaseDate  time.Time `json:"purchaseDate"`
	Amount        float64   `json:"amount,omitempty"`
	Product       string    `json:"product,omitempty"`
}

// FromReview converts a review webhook into a normalized Signal.
func FromReview(p ReviewPayload) (Signal, error) {
	if p.Rating < 1 || p.Rating > 5 {
		return Signal{}, fmt.Errorf("review rating %d out of range 1-5", p.Rating)
	}

	ts := p.Received
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	// Star ratings map linearly onto the 0-100 score axis.
	score := (p.Rating - 1) * 25

	return Signal{
		ID:        uuid.NewString(),
		Source:    "webhook.review",
		Type:      TypeReview,
		Sentiment: SentimentFromRating(p.Rating),
		Score:     score,
		Content:   p.Content,
		Author:    p.Author,
		Rating:    p.Rating,
		Platform:  p.Platform,
		URL:       p.URL,
		Timestamp: ts,
	}, nil
}

// FromAlert converts a monitoring alert into a normalized Signal.
// Alerts are always treated as negative mentions.
func FromAlert(p AlertPayload) Signal {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return Signal{
		ID:        uuid.NewString(),
		Source:    p.Source,
		Type:      TypeMention,
		Sentiment: SentimentNegative,
		Score:     20,
		Content:   p.Message,
		Platform:  p.Platform,
		URL:       p.URL,
		Timestamp: ts,
	}
}

// FromSale converts a completed sale into a positive feedback signal.
// Sales carry no direct perception content but mark an engaged customer.
func FromSale(p SalePayload) Signal {
	ts := p.PurchaseDate
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return Signal{
		ID:        uuid.NewString(),
		Source:    "sale.completed",
		Type:      TypeFeedback,
		Sentiment: SentimentPositive,
		Score:     70,
		Content:   fmt.Sprintf("completed purchase: %s", p.Product),
		Author:    p.CustomerName,
		Timestamp: ts,
	}
}
