package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// mood picks how Suki the lucky cat greets the learner on the dashboard.
type mood int

const (
	moodCalm  mood = iota
	moodCheer      // XP earned today
	moodNudge      // reviews are piling up
)

type pose struct {
	art string
	fg  color.Color
}

var poses = map[mood]pose{
	moodCalm: {fg: theme.Primary, art: `  /\_/\
 ( ^.^ )
 (  ね )
  ~~~~~`},
	moodCheer: {fg: theme.Gold, art: `  /\_/\  ✦
 ( ★.★ )ノ
 (  ね )
  ~~~~~`},
	moodNudge: {fg: theme.Accent, art: `  /\_/\  !
 ( o.o )
 (  ね )つ
  ~~~~~`},
}

// moodFor chooses a mood from today's dashboard numbers. A review backlog
// outranks celebrating.
func moodFor(st stats) mood {
	switch {
	case st.due >= 3:
		return moodNudge
	case st.todayXP > 0:
		return moodCheer
	default:
		return moodCalm
	}
}

func renderMascot(m mood) string {
	p, ok := poses[m]
	if !ok {
		p = poses[moodCalm]
	}
	return lipgloss.NewStyle().Foreground(p.fg).Render(p.art)
}
