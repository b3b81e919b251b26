package welcome

import (
	"time"

	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// RenderBanner falls back to the kana banner when the block letters would
// not fit in width.
func RenderBanner(width int) string {
	return components.Banner(width < components.BannerWidth+4, theme.Primary)
}

// Greeting returns the Japanese greeting for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 4 && h < 11:
		return "おはよう! Good morning!"
	case h >= 11 && h < 18:
		return "こんにちは! Hello!"
	}
	return "こんばんは! Good evening!"
}
