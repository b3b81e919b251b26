package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type rawState struct {
	XP            json.RawMessage `json:"xp"`
	TotalSessions json.RawMessage `json:"totalSessions"`
	DailyDate     json.RawMessage `json:"dailyDate"`
	DailyXP       json.RawMessage `json:"dailyXp"`
	DailySessions json.RawMessage `json:"dailySessions"`
	Words         json.RawMessage `json:"words"`
}

type rawWord struct {
	Term         json.RawMessage `json:"term"`
	Romaji       json.RawMessage `json:"romaji"`
	English      json.RawMessage `json:"english"`
	Count        json.RawMessage `json:"count"`
	LastSeen     json.RawMessage `json:"lastSeen"`
	NextReviewAt json.RawMessage `json:"nextReviewAt"`
}

// Decode parses a stored progress document. It never fails: missing or
// unreadable input yields Empty, fields of the wrong type fall back to
// their defaults, words without a term are dropped and missing timestamps
// become now. The daily rollover is not applied.
func Decode(data []byte, now time.Time) State {
	s := Empty()
	if len(data) == 0 {
		return s
	}

	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}

	s.XP = intField(raw.XP, 0)
	s.TotalSessions = intField(raw.TotalSessions, 0)
	s.DailyDate = stringField(raw.DailyDate)
	s.DailyXP = intField(raw.DailyXP, 0)
	s.DailySessions = intField(raw.DailySessions, 0)

	var elems []json.RawMessage
	if json.Unmarshal(raw.Words, &elems) != nil {
		return s
	}

	index := make(map[string]int, len(elems))
	for _, el := range elems {
		var rw rawWord
		if json.Unmarshal(el, &rw) != nil {
			continue
		}
		w := WordEntry{
			Term:         stringField(rw.Term),
			Romaji:       stringField(rw.Romaji),
			English:      stringField(rw.English),
			Count:        max(intField(rw.Count, 1), 1),
			LastSeen:     timeField(rw.LastSeen, now),
			NextReviewAt: timeField(rw.NextReviewAt, now),
		}
		if w.Term == "" {
			continue
		}
		if i, dup := index[w.Term]; dup {
			s.Words[i] = combine(s.Words[i], w)
			continue
		}
		index[w.Term] = len(s.Words)
		s.Words = append(s.Words, w)
	}
	s.Words = capWords(s.Words)
	return s
}

// Encode serialises s for storage.
func Encode(s State) ([]byte, error) {
	if s.Words == nil {
		s.Words = []WordEntry{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return data, nil
}

// combine folds a duplicate ledger entry into the first one seen.
func combine(a, b WordEntry) WordEntry {
	if a.Romaji == "" {
		a.Romaji = b.Romaji
	}
	if a.English == "" {
		a.English = b.English
	}
	a.Count = max(a.Count, b.Count)
	if b.LastSeen.After(a.LastSeen) {
		a.LastSeen = b.LastSeen
	}
	if b.NextReviewAt.After(a.NextReviewAt) {
		a.NextReviewAt = b.NextReviewAt
	}
	return a
}

func intField(raw json.RawMessage, def int) int {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil || math.IsNaN(f) {
		return def
	}
	if f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func timeField(raw json.RawMessage, def time.Time) time.Time {
	s := stringField(raw)
	if s == "" {
		return def
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return def
	}
	return t
}
