// Package theme holds Sensei's palette and the handful of shared styles
// screens reach for directly.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Sakura pink on a night sky, with lantern gold for rewards.
var (
	Primary   = lipgloss.Color("#EC4899") // sakura
	Secondary = lipgloss.Color("#14B8A6") // matcha teal
	Accent    = lipgloss.Color("#F97316") // persimmon
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")

	Gold = lipgloss.Color("#FACC15") // lantern
	Sky  = lipgloss.Color("#22D3EE")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0F172A")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")
)

// Kana renders the glyph or term a card is asking about.
var Kana = lipgloss.NewStyle().Bold(true).Foreground(Gold)

var Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

// Answer feedback.
var (
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Chat bubbles. The tutor speaks in sakura, the learner in teal.
var (
	TutorBubble   = bubble(Primary)
	LearnerBubble = bubble(Secondary)
)

// Buttons.
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

func bubble(edge color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge).
		Padding(0, 1)
}
