package setup

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

const bannerArt = `
 ██████╗  █████╗ ██████╗ ██╗     ███████╗██╗   ██╗
 ██╔══██╗██╔══██╗██╔══██╗██║     ██╔════╝╚██╗ ██╔╝
 ██████╔╝███████║██████╔╝██║     █████╗   ╚████╔╝
 ██╔═══╝ ██╔══██║██╔══██╗██║     ██╔══╝    ╚██╔╝
 ██║     ██║  ██║██║  ██║███████╗███████╗   ██║
 ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "P A R L E Y"

// renderBanner returns the PARLEY banner in the primary color. The compact
// form is used when the art would not fit.
func renderBanner(width, height int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 || height < 34 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
