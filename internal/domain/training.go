package domain

import "time"

type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// TrainingEntry records one human decision about a label.
type TrainingEntry struct {
	ID        string
	EmailBody string
	Label     string
	Feedback  Feedback
	Timestamp time.Time
}
