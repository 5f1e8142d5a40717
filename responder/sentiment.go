package responder

import "strings"

// Sentiment is the tone label attached to an inbound message.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
	Urgent   Sentiment = "urgent"
)

// ParseSentiment normalizes a generator answer. Anything outside the four
// labels is Neutral.
func ParseSentiment(answer string) Sentiment {
	switch s := Sentiment(strings.ToLower(strings.TrimSpace(answer))); s {
	case Positive, Negative, Neutral, Urgent:
		return s
	default:
		return Neutral
	}
}
