package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingopro/internal/ui/theme"
)

const bannerArt = `
 _     _                             
| |   (_)_ __   __ _  ___  _ __  _ __ ___  
| |   | | '_ \ / _' |/ _ \| '_ \| '__/ _ \ 
| |___| | | | | (_| | (_) | |_) | | | (_) |
|_____|_|_| |_|\__, |\___/| .__/|_|  \___/ 
               |___/      |_|              `

const bannerCompact = "L I N G O P R O"

// RenderBanner returns the product banner in the primary color, or a
// compact fallback for terminals narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
