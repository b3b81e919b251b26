package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestFits(t *testing.T) {
	assert.True(t, Fits(MinWidth, MinHeight))
	assert.False(t, Fits(MinWidth-1, 40))
	assert.False(t, Fits(120, MinHeight-1))
}

func TestHeader(t *testing.T) {
	h := Header("Kana Quiz", 250, 3, 100)
	assert.Contains(t, h, "Sensei")
	assert.Contains(t, h, "Kana Quiz")
	assert.Contains(t, h, "Lv 3")
	assert.Contains(t, h, "250 XP")
}

func TestFooter(t *testing.T) {
	f := Footer([]KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Enter", Description: "Pick"}}, 80)
	assert.Contains(t, f, "Esc")
	assert.Contains(t, f, "Pick")
	assert.Contains(t, f, "·")
}

func TestCompose_FillsHeight(t *testing.T) {
	header := Header("Home", 0, 1, 80)
	footer := Footer(nil, 80)
	frame := Compose(header, "hello", footer, 80, 30)

	assert.Equal(t, 30, lipgloss.Height(frame))
	lines := strings.Split(frame, "\n")
	assert.Contains(t, lines[lipgloss.Height(header)], "hello")
	assert.Equal(t, 30-lipgloss.Height(header)-lipgloss.Height(footer), BodyHeight(30, header, footer))
}

func TestResizeNotice(t *testing.T) {
	n := ResizeNotice(40, 10)
	assert.Contains(t, n, "40×10")
}
