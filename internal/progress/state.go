// Package progress holds a learner's XP, session counters and word ledger,
// and persists them through a key-value backend.
package progress

import (
	"slices"
	"strings"
	"time"
)

// MaxWords caps the word ledger. When a merge pushes the ledger past the
// cap, the least recently seen words are evicted.
const MaxWords = 120

// DateLayout is the calendar-day format of State.DailyDate.
const DateLayout = "2006-01-02"

// WordEntry is one tracked term.
type WordEntry struct {
	Term         string    `json:"term"`
	Romaji       string    `json:"romaji"`
	English      string    `json:"english"`
	Count        int       `json:"count"`
	LastSeen     time.Time `json:"lastSeen"`
	NextReviewAt time.Time `json:"nextReviewAt"`
}

// MissingMetadata reports whether romaji or english is still blank.
func (w WordEntry) MissingMetadata() bool {
	return w.Romaji == "" || w.English == ""
}

// IsDue reports whether the word should be reviewed at now.
func (w WordEntry) IsDue(now time.Time) bool {
	return !w.NextReviewAt.After(now)
}

// State is the persisted progress document for one user.
type State struct {
	XP            int         `json:"xp"`
	TotalSessions int         `json:"totalSessions"`
	DailyDate     string      `json:"dailyDate"`
	DailyXP       int         `json:"dailyXp"`
	DailySessions int         `json:"dailySessions"`
	Words         []WordEntry `json:"words"`
}

// Empty returns a fresh state with no XP, sessions or words.
func Empty() State {
	return State{Words: []WordEntry{}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Words = slices.Clone(s.Words)
	if c.Words == nil {
		c.Words = []WordEntry{}
	}
	return c
}

// Word returns the entry for term.
func (s State) Word(term string) (WordEntry, bool) {
	for _, w := range s.Words {
		if w.Term == term {
			return w, true
		}
	}
	return WordEntry{}, false
}

// DateKey formats t as a calendar day in loc. A nil loc means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// Rollover zeroes the daily counters and stamps today when the state
// belongs to a different day. Applying it twice is the same as once.
func Rollover(s State, today string) State {
	if s.DailyDate == today {
		return s
	}
	s.DailyDate = today
	s.DailyXP = 0
	s.DailySessions = 0
	return s
}

// capWords drops the least recently seen entries beyond MaxWords. Ties are
// broken by term so eviction is deterministic. Surviving entries keep their
// relative order.
func capWords(words []WordEntry) []WordEntry {
	excess := len(words) - MaxWords
	if excess <= 0 {
		return words
	}

	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := words[a].LastSeen.Compare(words[b].LastSeen); c != 0 {
			return c
		}
		return strings.Compare(words[a].Term, words[b].Term)
	})

	evict := make(map[int]struct{}, excess)
	for _, i := range order[:excess] {
		evict[i] = struct{}{}
	}

	kept := make([]WordEntry, 0, MaxWords)
	for i, w := range words {
		if _, drop := evict[i]; !drop {
			kept = append(kept, w)
		}
	}
	return kept
}
