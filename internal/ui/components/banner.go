package components

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const bannerArt = ` ███████╗███████╗███╗   ██╗███████╗███████╗██╗
 ██╔════╝██╔════╝████╗  ██║██╔════╝██╔════╝██║
 ███████╗█████╗  ██╔██╗ ██║███████╗█████╗  ██║
 ╚════██║██╔══╝  ██║╚██╗██║╚════██║██╔══╝  ██║
 ███████║███████╗██║ ╚████║███████║███████╗██║
 ╚══════╝╚══════╝╚═╝  ╚═══╝╚══════╝╚══════╝╚═╝`

// BannerWidth is the width of the block-letter banner.
var BannerWidth = lipgloss.Width(bannerArt)

// Banner renders SENSEI in block letters, or the one-line kana form when
// compact is set.
func Banner(compact bool, fg color.Color) string {
	s := bannerArt
	if compact {
		s = "✿ せんせい · Sensei ✿"
	}
	return lipgloss.NewStyle().Foreground(fg).Bold(true).Render(s)
}
