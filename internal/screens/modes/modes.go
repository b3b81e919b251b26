// Package modes holds the screens a learner sees once a mode is opened:
// the pre-session review, the tutor chat and the kana game.
package modes

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/summary"
	"github.com/abhisek/sensei/internal/session"
)

// actionTimeout bounds a single machine call made from the UI.
const actionTimeout = 90 * time.Second

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ForView returns the screen that renders v. At home there is nothing to
// show and nil is returned.
func ForView(m *session.Machine, v session.View) screen.Screen {
	switch v.Phase {
	case session.PhaseReviewing:
		return NewReview(m, v)
	case session.PhaseActive:
		if v.Kana != nil {
			return NewKana(m, v)
		}
		return NewChat(m, v)
	}
	return nil
}

// leave returns the machine home and reports the finished mode.
func leave(m *session.Machine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_, sum, err := m.BackHome(ctx)
		return leftModeMsg{Summary: sum, Err: err}
	}
}

// handleLeft swaps the mode screen for its summary, or pops straight home
// when there is nothing to summarise.
func handleLeft(msg leftModeMsg, notice string) tea.Cmd {
	if msg.Summary == nil {
		return router.Back()
	}
	return replaceWithSummary(msg.Summary, notice)
}

func replaceWithSummary(sum *session.Summary, notice string) tea.Cmd {
	return router.Swap(summary.New(sum, notice))
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// errorNotice maps machine errors to something a child can act on.
func errorNotice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "Sensei is still thinking. One moment!"
	case errors.Is(err, session.ErrEmptyMessage):
		return "Type a message first."
	case errors.Is(err, session.ErrNotInMode), errors.Is(err, session.ErrReviewing):
		return "Finish your review first!"
	}
	return session.ChatErrorNotice
}
