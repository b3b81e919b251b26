// Package lessons holds the learning modes, the day-by-day curriculum, the
// static content catalog and the tutor prompts.
package lessons

import "fmt"

// Mode is a selectable learning activity.
type Mode string

const (
	ModeFunChat    Mode = "fun-chat"
	ModeTraining5  Mode = "training-5"
	ModeTraining10 Mode = "training-10"
	ModeKanaMatch  Mode = "kana-match"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeFunChat, ModeTraining5, ModeTraining10, ModeKanaMatch}

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Label is the menu text for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeFunChat:
		return "Start Fun Chat"
	case ModeTraining5:
		return "Training (5 min)"
	case ModeTraining10:
		return "Training (10 min)"
	case ModeKanaMatch:
		return "Kana Match Game"
	}
	return string(m)
}

// Starter is the opening line shown when the mode begins. It is local
// only and never sent to the provider.
func (m Mode) Starter() string {
	switch m {
	case ModeFunChat:
		return "Konnichiwa! We can talk about anything: friends, school, shopping, music, news, and more. I will teach Japanese naturally as we talk."
	case ModeTraining5:
		return "Welcome to 5-minute training. I will run quick practice rounds and then a mini challenge."
	case ModeTraining10:
		return "Welcome to 10-minute training. I will teach a deeper mini lesson, then quiz your recall."
	case ModeKanaMatch:
		return "Kana Match time. Tap the correct romaji for each kana card."
	}
	return ""
}

// IsChat reports whether the mode is a tutor conversation.
func (m Mode) IsChat() bool {
	return m == ModeFunChat || m == ModeTraining5 || m == ModeTraining10
}

// SystemPrompt returns the tutor instructions for a chat mode.
func SystemPrompt(m Mode) string {
	switch m {
	case ModeTraining5:
		return "You are Sensei Suki teaching a 5-minute Japanese drill. Keep responses concise, focused, and include one short follow-up question."
	case ModeTraining10:
		return "You are Sensei Suki teaching a 10-minute Japanese practice. Build a slightly deeper mini-lesson with kana, romaji, and English, then ask one practice question."
	default:
		return "You are Sensei Suki, a fun Japanese tutor for kids. Keep things friendly, short, and clear with kana, romaji, and English."
	}
}
