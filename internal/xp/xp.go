// Package xp defines XP rewards and levels, and records awards.
package xp

import (
	"context"
	"math"

	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/store"
)

// Rewards.
const (
	KanaCorrect     = 10
	KanaIncorrect   = 3
	ReviewCorrect   = 8
	ReviewIncorrect = 3
	ChatTurn        = 12
)

// PerLevel is the XP needed to climb one level.
const PerLevel = 120

// Reason labels an award in the XP event log.
type Reason string

const (
	ReasonKana   Reason = "kana"
	ReasonReview Reason = "review"
	ReasonChat   Reason = "chat"
)

// Level describes where an XP total sits on the level ladder.
type Level struct {
	Number  int // 1-based
	Floor   int // XP at the start of this level
	Next    int // XP at the start of the next level
	Percent int // progress through the level, 0-100
}

// LevelOf returns the level for total XP.
func LevelOf(total int) Level {
	if total < 0 {
		total = 0
	}
	n := total/PerLevel + 1
	floor := (n - 1) * PerLevel
	pct := int(math.Round(float64(total-floor) / PerLevel * 100))
	return Level{
		Number:  n,
		Floor:   floor,
		Next:    floor + PerLevel,
		Percent: min(100, pct),
	}
}

// KanaReward returns the XP for a kana answer.
func KanaReward(correct bool) int {
	if correct {
		return KanaCorrect
	}
	return KanaIncorrect
}

// ReviewReward returns the XP for a review answer.
func ReviewReward(correct bool) int {
	if correct {
		return ReviewCorrect
	}
	return ReviewIncorrect
}

// EventAppender records XP awards. store.EventRepo implements it.
type EventAppender interface {
	AppendXPEvent(ctx context.Context, data store.XPEventData) error
}

// Ledger awards XP on a progress store and appends an event per award.
// Event failures are logged and never fail the award.
type Ledger struct {
	progress *progress.Store
	events   EventAppender
	log      *logger.Logger
}

// NewLedger creates a ledger. events and log may be nil.
func NewLedger(p *progress.Store, events EventAppender, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{progress: p, events: events, log: log}
}

// Award adds amount XP for reason, attributed to sessionID.
func (l *Ledger) Award(ctx context.Context, reason Reason, amount int, sessionID string) (progress.State, error) {
	st, err := l.progress.AwardXP(ctx, amount)
	if amount <= 0 || l.events == nil {
		return st, err
	}
	evErr := l.events.AppendXPEvent(ctx, store.XPEventData{
		UserID:    l.progress.UserID(),
		SessionID: sessionID,
		Reason:    string(reason),
		Amount:    amount,
	})
	if evErr != nil {
		l.log.Warn("xp event append failed", "user_id", l.progress.UserID(), "reason", reason, "error", evErr)
	}
	return st, err
}
