package spacedrep

import (
	"context"
	"time"

	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/xp"
)

// Scheduler applies review outcomes to a user's word ledger.
type Scheduler struct {
	progress *progress.Store
	ledger   *xp.Ledger
}

// NewScheduler creates a scheduler over the given progress store and XP
// ledger.
func NewScheduler(p *progress.Store, ledger *xp.Ledger) *Scheduler {
	return &Scheduler{progress: p, ledger: ledger}
}

// Select returns the review queue for the user's current ledger.
func (s *Scheduler) Select(ctx context.Context) Queue {
	return SelectDue(s.progress.Snapshot(ctx).Words, s.progress.Now())
}

// RecordOutcome reschedules term after a review answer and awards review
// XP. XP is awarded even if the word has since left the ledger.
func (s *Scheduler) RecordOutcome(ctx context.Context, term string, correct bool, sessionID string) (time.Time, error) {
	var next time.Time
	_, updateErr := s.progress.UpdateWord(ctx, term, func(w *progress.WordEntry, now time.Time) {
		w.LastSeen = now
		next = NextReview(correct, now)
		w.NextReviewAt = next
	})

	_, awardErr := s.ledger.Award(ctx, xp.ReasonReview, xp.ReviewReward(correct), sessionID)
	if updateErr != nil {
		return next, updateErr
	}
	return next, awardErr
}
