package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screens/home"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/layout"
)

type echoTutor struct{}

func (echoTutor) Reply(_ context.Context, _ lessons.Mode, _ []llm.Message, msg string) (string, error) {
	return "echo " + msg, nil
}

func newTestModel(t *testing.T) (AppModel, *session.Machine) {
	t.Helper()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	p, err := progress.New("kid-1", kv.NewMemory(), progress.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	m := session.NewMachine(session.Deps{Progress: p, Tutor: echoTutor{}})
	return newAppModel(Options{Machine: m}), m
}

// drive runs cmd and feeds every resulting message back into the model,
// following up to depth rounds of commands. Timer ticks are dropped.
func drive(t *testing.T, model AppModel, cmd tea.Cmd, depth int) AppModel {
	t.Helper()
	if cmd == nil || depth == 0 {
		return model
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			model = drive(t, model, c, depth)
		}
		return model
	}
	if msg == nil {
		return model
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return model
	}
	if strings.HasSuffix(strings.ToLower(fmt.Sprintf("%T", msg)), "tickmsg") {
		return model
	}
	updated, next := model.Update(msg)
	return drive(t, updated.(AppModel), next, depth-1)
}

func TestHeaderShowsLevelAndXP(t *testing.T) {
	model, m := newTestModel(t)
	if _, err := m.Progress().AwardXP(context.Background(), 250); err != nil {
		t.Fatal(err)
	}
	updated, _ := model.Update(router.ResumeMsg{})
	model = updated.(AppModel)

	if model.xp != 250 || model.level != 3 {
		t.Fatalf("header stats = %d xp, level %d", model.xp, model.level)
	}
	header := layout.Header("Home", model.xp, model.level, 100)
	if !strings.Contains(header, "Lv 3") || !strings.Contains(header, "250 XP") {
		t.Errorf("header missing level or xp:\n%s", header)
	}
}

func TestWelcomeThenHome(t *testing.T) {
	model, _ := newTestModel(t)
	updated, cmd := model.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	model = drive(t, updated.(AppModel), cmd, 3)

	if _, ok := model.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("expected home screen, got %T", model.router.Active())
	}
}

func TestEscLeavesChatMode(t *testing.T) {
	model, m := newTestModel(t)
	updated, cmd := model.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	model = drive(t, updated.(AppModel), cmd, 3)

	// Fun chat is the first menu item.
	updated, cmd = model.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	model = drive(t, updated.(AppModel), cmd, 4)
	if m.View().Phase != session.PhaseActive {
		t.Fatalf("phase = %s, want active", m.View().Phase)
	}
	if model.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", model.router.Depth())
	}

	updated, cmd = model.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	model = drive(t, updated.(AppModel), cmd, 4)

	if m.View().Phase != session.PhaseHome {
		t.Errorf("phase = %s, want home", m.View().Phase)
	}
	if model.router.Active().Title() != "Session Summary" {
		t.Errorf("active = %q, want summary", model.router.Active().Title())
	}

	updated, cmd = model.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	model = drive(t, updated.(AppModel), cmd, 3)
	if model.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1 after leaving summary", model.router.Depth())
	}
}

func TestBreadcrumb(t *testing.T) {
	tests := []struct {
		trail []string
		want  string
	}{
		{nil, ""},
		{[]string{"Home"}, "Home"},
		{[]string{"Home", "My Words"}, "Home › My Words"},
		{[]string{"Home", "Review", "Summary"}, "Review › Summary"},
	}
	for _, tt := range tests {
		if got := breadcrumb(tt.trail); got != tt.want {
			t.Errorf("breadcrumb(%v) = %q, want %q", tt.trail, got, tt.want)
		}
	}
}
