package modes

import (
	"time"

	"github.com/abhisek/sensei/internal/session"
)

// reviewAnsweredMsg is sent when a review outcome has been recorded.
type reviewAnsweredMsg struct {
	View session.View
	Err  error
}

// chatRepliedMsg is sent when a tutor turn finishes, successfully or not.
type chatRepliedMsg struct {
	Result session.ChatResult
	Err    error
}

// kanaAnsweredMsg is sent when a kana answer has been scored.
type kanaAnsweredMsg struct {
	Result session.KanaResult
	Err    error
}

// leftModeMsg is sent after the machine returned home.
type leftModeMsg struct {
	Summary *session.Summary
	Err     error
}

// spinnerTickMsg animates the thinking indicator.
type spinnerTickMsg time.Time
