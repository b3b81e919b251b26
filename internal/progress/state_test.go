package progress

import (
	"fmt"
	"testing"
	"time"
)

var day0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestRollover(t *testing.T) {
	words := []WordEntry{{Term: "猫", Count: 2, LastSeen: day0, NextReviewAt: day0}}
	stale := State{XP: 50, TotalSessions: 4, DailyDate: "2026-03-13", DailyXP: 20, DailySessions: 2, Words: words}

	got := Rollover(stale, "2026-03-14")
	if got.DailyXP != 0 || got.DailySessions != 0 || got.DailyDate != "2026-03-14" {
		t.Errorf("daily counters not reset: %+v", got)
	}
	if got.XP != 50 || got.TotalSessions != 4 || len(got.Words) != 1 {
		t.Errorf("lifetime fields changed: %+v", got)
	}

	again := Rollover(got, "2026-03-14")
	if again.DailyDate != got.DailyDate || again.DailyXP != got.DailyXP {
		t.Errorf("second rollover changed state: %+v", again)
	}

	same := State{DailyDate: "2026-03-14", DailyXP: 7, DailySessions: 1}
	if r := Rollover(same, "2026-03-14"); r.DailyXP != 7 || r.DailySessions != 1 {
		t.Errorf("same-day rollover reset counters: %+v", r)
	}
}

func TestDateKey(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	if got := DateKey(late, nil); got != "2026-03-14" {
		t.Errorf("utc = %s", got)
	}
	if got := DateKey(late, tokyo); got != "2026-03-15" {
		t.Errorf("tokyo = %s", got)
	}
}

func TestWordEntry_IsDue(t *testing.T) {
	w := WordEntry{NextReviewAt: day0}
	if !w.IsDue(day0) {
		t.Error("word due exactly at nextReviewAt should be due")
	}
	if w.IsDue(day0.Add(-time.Second)) {
		t.Error("word should not be due before nextReviewAt")
	}
}

func TestCapWords(t *testing.T) {
	words := make([]WordEntry, 0, MaxWords+2)
	for i := 0; i < MaxWords+2; i++ {
		words = append(words, WordEntry{
			Term:     fmt.Sprintf("語%03d", i),
			Count:    1,
			LastSeen: day0.Add(time.Duration(i) * time.Minute),
		})
	}
	// Two oldest share a timestamp; term order breaks the tie.
	words[5].LastSeen = day0.Add(-time.Hour)
	words[3].LastSeen = day0.Add(-time.Hour)

	got := capWords(words)
	if len(got) != MaxWords {
		t.Fatalf("len = %d, want %d", len(got), MaxWords)
	}
	for _, w := range got {
		if w.Term == "語003" || w.Term == "語005" {
			t.Errorf("%s should have been evicted", w.Term)
		}
	}
	if got[0].Term != "語000" || got[len(got)-1].Term != fmt.Sprintf("語%03d", MaxWords+1) {
		t.Errorf("order not preserved: first=%s last=%s", got[0].Term, got[len(got)-1].Term)
	}
}

func TestClone_Independent(t *testing.T) {
	s := State{Words: []WordEntry{{Term: "犬"}}}
	c := s.Clone()
	c.Words[0].Term = "猫"
	if s.Words[0].Term != "犬" {
		t.Error("clone shares word storage")
	}
	if Empty().Clone().Words == nil {
		t.Error("clone of empty state should have non-nil words")
	}
}
