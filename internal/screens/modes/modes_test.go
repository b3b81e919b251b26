package modes

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/summary"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/vocab"
)

type stubTutor struct {
	reply string
	err   error
}

func (s stubTutor) Reply(context.Context, lessons.Mode, []llm.Message, string) (string, error) {
	return s.reply, s.err
}

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newMachine(t *testing.T, tutor session.Replier) *session.Machine {
	t.Helper()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	p, err := progress.New("kid-1", kv.NewMemory(), progress.WithClock(func() time.Time { return now }), progress.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	return session.NewMachine(session.Deps{Progress: p, Tutor: tutor, Rand: zeroRand{}})
}

func open(t *testing.T, m *session.Machine, mode lessons.Mode) screen.Screen {
	t.Helper()
	v, err := m.OpenMode(context.Background(), mode)
	if err != nil {
		t.Fatalf("OpenMode: %v", err)
	}
	s := ForView(m, v)
	if s == nil {
		t.Fatalf("no screen for phase %s", v.Phase)
	}
	return s
}

// run executes cmd and any batched commands, returning every message.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed delivers the messages of cmd that are not spinner ticks back to s.
func feed(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Cmd) {
	t.Helper()
	var next tea.Cmd
	for _, msg := range run(cmd) {
		if _, ok := msg.(spinnerTickMsg); ok {
			continue
		}
		s, next = s.Update(msg)
	}
	return s, next
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestForView(t *testing.T) {
	m := newMachine(t, stubTutor{reply: "やあ"})
	if ForView(m, m.View()) != nil {
		t.Error("expected no screen at home")
	}
	if _, ok := open(t, m, lessons.ModeFunChat).(*ChatScreen); !ok {
		t.Error("expected ChatScreen for fun chat")
	}
	if _, _, err := m.BackHome(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := open(t, m, lessons.ModeKanaMatch).(*KanaScreen); !ok {
		t.Error("expected KanaScreen for kana match")
	}
}

func TestChat_SendAndReply(t *testing.T) {
	m := newMachine(t, stubTutor{reply: "ねこ means cat!"})
	s := open(t, m, lessons.ModeTraining5).(*ChatScreen)

	if s.Title() != "Training (5 min)" {
		t.Errorf("Title = %q", s.Title())
	}

	s.input.Model.SetValue("what is cat?")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.busy || !s.input.Disabled {
		t.Fatal("expected screen to be busy while the tutor replies")
	}
	if got := s.view.Messages[len(s.view.Messages)-1].Content; got != "what is cat?" {
		t.Errorf("learner message not shown immediately, last = %q", got)
	}

	feed(t, s, cmd)

	if s.busy {
		t.Error("expected busy cleared after reply")
	}
	msgs := s.view.Messages
	if len(msgs) != 3 || msgs[2].Content != "ねこ means cat!" {
		t.Errorf("messages = %+v", msgs)
	}
	if !slices.Equal(s.terms, []string{"ねこ"}) {
		t.Errorf("terms = %v", s.terms)
	}
	if !strings.Contains(s.View(100, 30), "ねこ means cat!") {
		t.Error("expected reply in transcript")
	}
}

func TestChat_FailureShowsNotice(t *testing.T) {
	m := newMachine(t, stubTutor{err: errors.New("boom")})
	s := open(t, m, lessons.ModeFunChat).(*ChatScreen)

	s.input.Model.SetValue("hello")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	feed(t, s, cmd)

	if s.notice != session.ChatErrorNotice {
		t.Errorf("notice = %q", s.notice)
	}
	last := s.view.Messages[len(s.view.Messages)-1]
	if last.Role != llm.RoleUser || last.Content != "hello" {
		t.Errorf("expected learner message kept, last = %+v", last)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	m := newMachine(t, stubTutor{})
	s := open(t, m, lessons.ModeFunChat).(*ChatScreen)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty message")
	}
	if s.notice == "" {
		t.Error("expected a notice for an empty message")
	}
}

func TestChat_LeaveShowsSummary(t *testing.T) {
	m := newMachine(t, stubTutor{reply: "はい"})
	s := open(t, m, lessons.ModeFunChat).(*ChatScreen)

	_, next := feed(t, s, s.Leave())
	msgs := run(next)
	if len(msgs) != 1 {
		t.Fatalf("expected one navigation message, got %d", len(msgs))
	}
	rep, ok := msgs[0].(router.SwapMsg)
	if !ok {
		t.Fatalf("expected SwapMsg, got %T", msgs[0])
	}
	if _, ok := rep.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", rep.Screen)
	}
	if m.View().Phase != session.PhaseHome {
		t.Errorf("machine phase = %s, want home", m.View().Phase)
	}
}

func TestKana_FullGame(t *testing.T) {
	m := newMachine(t, stubTutor{})
	var s screen.Screen = open(t, m, lessons.ModeKanaMatch)
	k := s.(*KanaScreen)

	var last tea.Cmd
	for round := 0; round < 5; round++ {
		if k.card == nil {
			t.Fatalf("round %d: no card", round)
		}
		// zeroRand always draws あ.
		idx := slices.Index(k.card.Options, "a")
		if idx < 0 {
			t.Fatalf("round %d: options %v lack the answer", round, k.card.Options)
		}
		_, cmd := k.Update(key(rune('a' + idx)))
		if cmd == nil {
			t.Fatalf("round %d: expected answer command", round)
		}
		feed(t, k, cmd)
		if k.result == nil || !k.result.Correct {
			t.Fatalf("round %d: result = %+v", round, k.result)
		}
		if !strings.Contains(k.View(80, 24), "Correct") {
			t.Errorf("round %d: expected feedback", round)
		}
		_, last = k.Update(key('x'))
	}

	msgs := run(last)
	if len(msgs) != 1 {
		t.Fatalf("expected summary navigation, got %v", msgs)
	}
	rep, ok := msgs[0].(router.SwapMsg)
	if !ok {
		t.Fatalf("expected SwapMsg, got %T", msgs[0])
	}
	view := rep.Screen.View(80, 24)
	if !strings.Contains(view, "Nice! Game complete.") || !strings.Contains(view, "5/5") {
		t.Errorf("summary view = %q", view)
	}
	if st := m.Progress().Snapshot(context.Background()); st.XP != 50 {
		t.Errorf("XP = %d, want 50", st.XP)
	}
}

func TestReview_AnswerStartsMode(t *testing.T) {
	m := newMachine(t, stubTutor{})
	ctx := context.Background()
	if _, err := m.Progress().MergeObservedTerms(ctx, []string{"いぬ"}, []vocab.Item{{Term: "いぬ", Romaji: "inu", English: "dog"}}); err != nil {
		t.Fatal(err)
	}

	s, ok := open(t, m, lessons.ModeKanaMatch).(*ReviewScreen)
	if !ok {
		t.Fatal("expected ReviewScreen when words exist")
	}
	if strings.Contains(s.View(80, 24), "dog") {
		t.Error("meaning should be hidden before reveal")
	}
	s.Update(key(' '))
	if !strings.Contains(s.View(80, 24), "dog") {
		t.Error("expected meaning after reveal")
	}

	if s.Leave() != nil || s.notice == "" {
		t.Error("expected leaving mid-review to be refused with a notice")
	}

	_, cmd := s.Update(key('g'))
	_, next := feed(t, s, cmd)
	msgs := run(next)
	if len(msgs) != 1 {
		t.Fatalf("expected navigation, got %v", msgs)
	}
	rep, ok := msgs[0].(router.SwapMsg)
	if !ok {
		t.Fatalf("expected SwapMsg, got %T", msgs[0])
	}
	if _, ok := rep.Screen.(*KanaScreen); !ok {
		t.Errorf("expected KanaScreen after review, got %T", rep.Screen)
	}
}
