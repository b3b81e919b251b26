package spacedrep

import "time"

// Review intervals. A word recalled correctly comes back after
// IntervalCorrect; a missed word comes back after IntervalAgain.
const (
	IntervalCorrect = 3 * 24 * time.Hour
	IntervalAgain   = 24 * time.Hour
)

// MaxQueue is the most words reviewed before a session starts.
const MaxQueue = 3

// NextReview returns when a word answered at now should be reviewed again.
func NextReview(correct bool, now time.Time) time.Time {
	if correct {
		return now.Add(IntervalCorrect)
	}
	return now.Add(IntervalAgain)
}
