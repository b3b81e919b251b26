// Package session drives a learner through home, pre-session review and an
// active learning mode.
package session

import (
	"errors"
	"time"

	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
)

// Phase is where the learner is in the flow.
type Phase string

const (
	PhaseHome      Phase = "home"
	PhaseReviewing Phase = "reviewing"
	PhaseActive    Phase = "active"
)

// ChatErrorNotice is shown when a tutor turn fails.
const ChatErrorNotice = "Oops! Try again."

var (
	// ErrBusy is returned while a tutor or enrichment call is outstanding.
	ErrBusy = errors.New("session: request already in progress")

	// ErrInvalidMode is returned for an unknown mode.
	ErrInvalidMode = errors.New("session: invalid mode")

	// ErrReviewing is returned when a mode is opened during review.
	ErrReviewing = errors.New("session: review in progress")

	// ErrNotReviewing is returned for a review answer outside review.
	ErrNotReviewing = errors.New("session: not reviewing")

	// ErrNotInMode is returned for a chat turn or back-home outside a mode
	// that supports it.
	ErrNotInMode = errors.New("session: not in a chat mode")

	// ErrEmptyMessage is returned for a blank chat message.
	ErrEmptyMessage = errors.New("session: empty message")

	// ErrNoKanaRound is returned for a kana answer with no game running.
	ErrNoKanaRound = errors.New("session: no kana round")
)

// Message is one line of the chat transcript.
type Message struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// ReviewCard is the word currently being reviewed.
type ReviewCard struct {
	Term    string `json:"term"`
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
}

// KanaCard is the current kana round.
type KanaCard struct {
	Kana    string   `json:"kana"`
	Options []string `json:"options"`
	Index   int      `json:"index"`
	Score   int      `json:"score"`
	Rounds  int      `json:"rounds"`
}

// View is a read-only snapshot of the machine for rendering.
type View struct {
	Phase       Phase        `json:"phase"`
	Mode        lessons.Mode `json:"mode,omitempty"`
	PendingMode lessons.Mode `json:"pendingMode,omitempty"`
	SessionID   string       `json:"sessionId,omitempty"`
	Review      *ReviewCard  `json:"review,omitempty"`
	Kana        *KanaCard    `json:"kana,omitempty"`
	Messages    []Message    `json:"messages,omitempty"`
	Notice      string       `json:"notice,omitempty"`
	Busy        bool         `json:"busy"`
}

// Summary describes a finished mode.
type Summary struct {
	SessionID string        `json:"sessionId"`
	Mode      lessons.Mode  `json:"mode"`
	Duration  time.Duration `json:"duration"`
	XPEarned  int           `json:"xpEarned"`
	Turns     int           `json:"turns"`
	KanaScore int           `json:"kanaScore"`
}

// ChatResult is the outcome of one chat turn. On failure Reply is empty
// and Notice is set; the learner's message stays in the transcript.
type ChatResult struct {
	Reply  string   `json:"reply,omitempty"`
	Terms  []string `json:"terms,omitempty"`
	Notice string   `json:"notice,omitempty"`
	View   View     `json:"view"`
}

// KanaResult is the outcome of one kana answer.
type KanaResult struct {
	Correct bool     `json:"correct"`
	Answer  string   `json:"answer"`
	Done    bool     `json:"done"`
	Summary *Summary `json:"summary,omitempty"`
	View    View     `json:"view"`
}
