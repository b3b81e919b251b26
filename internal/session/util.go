package session

import "strings"

// MaxMessageLength bounds a single chat message in runes.
const MaxMessageLength = 2000

func trimMessage(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxMessageLength {
		s = string(r[:MaxMessageLength])
	}
	return s
}
