package lessons

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("karaoke"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestModeText(t *testing.T) {
	for _, m := range Modes {
		if m.Label() == "" || m.Starter() == "" {
			t.Errorf("mode %q missing label or starter", m)
		}
	}
	if ModeTraining5.Label() != "Training (5 min)" {
		t.Errorf("label = %q", ModeTraining5.Label())
	}
	if ModeKanaMatch.IsChat() || !ModeFunChat.IsChat() || !ModeTraining10.IsChat() {
		t.Error("IsChat classification wrong")
	}
}

func TestSystemPrompt(t *testing.T) {
	if SystemPrompt(ModeFunChat) == SystemPrompt(ModeTraining5) {
		t.Error("fun chat and training prompts should differ")
	}
	if SystemPrompt(ModeKanaMatch) != SystemPrompt(ModeFunChat) {
		t.Error("non-chat modes fall back to the fun chat prompt")
	}
}

func TestDayTopic(t *testing.T) {
	tests := []struct {
		day     int
		want    string
		wantErr bool
	}{
		{1, "Greetings and self-introduction", false},
		{15, "Animals and nature", false},
		{30, "Comprehensive review day", false},
		{0, "", true},
		{31, "", true},
	}
	for _, tt := range tests {
		got, err := DayTopic(tt.day)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DayTopic(%d) = %q, %v", tt.day, got, err)
		}
	}
	if len(Curriculum()) != Days {
		t.Errorf("curriculum has %d days", len(Curriculum()))
	}
}

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestPickCards(t *testing.T) {
	for i := 0; i < 10; i++ {
		if c := PickJoke(fixedRand(i)); c.Kind != CardDadJoke {
			t.Errorf("PickJoke returned %q card", c.Kind)
		}
	}
	if got := PickJoke(fixedRand(0)); got.Text != "Why did the kanji student bring a ladder? To reach a higher level." {
		t.Errorf("first joke = %q", got.Text)
	}
	if got := PickTrivia(fixedRand(2)); got.Title != "History Spotlight" {
		t.Errorf("trivia = %+v", got)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("embedded catalog invalid: %v", err)
	}
	if len(c.Lessons) == 0 || len(c.Games) == 0 || len(c.Videos) == 0 {
		t.Fatalf("catalog = %d lessons, %d games, %d videos", len(c.Lessons), len(c.Games), len(c.Videos))
	}

	for _, kind := range []string{KindLessons, KindGames, KindVideos} {
		if _, err := c.Lookup(kind); err != nil {
			t.Errorf("Lookup(%q): %v", kind, err)
		}
	}
	if _, err := c.Lookup("songs"); !errors.Is(err, ErrUnknownContent) {
		t.Errorf("err = %v, want ErrUnknownContent", err)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "lessons: [:"},
		{"duplicate id", "lessons:\n  - {id: a, level: beginner}\ngames:\n  - {id: a, type: wordfind}\n"},
		{"unknown level", "lessons:\n  - {id: a, level: expert}\n"},
		{"unknown game type", "games:\n  - {id: g, type: crossword}\n"},
		{"hints mismatch", "games:\n  - id: g\n    type: wordfind\n    config: {words: [いぬ], hints: []}\n"},
		{"missing id", "videos:\n  - {title: x}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
