package spacedrep

import (
	"slices"
	"strings"
	"time"

	"github.com/abhisek/sensei/internal/progress"
)

// Queue is the ordered set of words to review before a session, with a
// cursor at the current card. It is not persisted.
type Queue struct {
	Entries []progress.WordEntry
	Index   int
}

// Len returns the number of cards in the queue.
func (q *Queue) Len() int { return len(q.Entries) }

// Done reports whether every card has been answered.
func (q *Queue) Done() bool { return q.Index >= len(q.Entries) }

// Current returns the card under the cursor.
func (q *Queue) Current() (progress.WordEntry, bool) {
	if q.Done() {
		return progress.WordEntry{}, false
	}
	return q.Entries[q.Index], true
}

// Advance moves past the current card and reports whether cards remain.
func (q *Queue) Advance() bool {
	if !q.Done() {
		q.Index++
	}
	return !q.Done()
}

// SelectDue picks up to MaxQueue words to review at now. Due words come
// first, ordered by earliest nextReviewAt, then earliest lastSeen, then
// term. When nothing is due the least recently seen words are used
// instead, so there is always something to practise once a word exists.
// An empty ledger yields an empty queue.
func SelectDue(words []progress.WordEntry, now time.Time) Queue {
	var due []progress.WordEntry
	for _, w := range words {
		if w.IsDue(now) {
			due = append(due, w)
		}
	}

	var pool []progress.WordEntry
	if len(due) > 0 {
		pool = due
		slices.SortFunc(pool, byDue)
	} else {
		pool = slices.Clone(words)
		slices.SortFunc(pool, byLastSeen)
	}

	if len(pool) > MaxQueue {
		pool = pool[:MaxQueue]
	}
	return Queue{Entries: slices.Clip(pool)}
}

// DueCount returns how many words are due at now.
func DueCount(words []progress.WordEntry, now time.Time) int {
	n := 0
	for _, w := range words {
		if w.IsDue(now) {
			n++
		}
	}
	return n
}

func byDue(a, b progress.WordEntry) int {
	if c := a.NextReviewAt.Compare(b.NextReviewAt); c != 0 {
		return c
	}
	return byLastSeen(a, b)
}

func byLastSeen(a, b progress.WordEntry) int {
	if c := a.LastSeen.Compare(b.LastSeen); c != 0 {
		return c
	}
	return strings.Compare(a.Term, b.Term)
}
