package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/chiptide/internal/keymap"
)

// Classic 64 palette.
var (
	colorScreen = lipgloss.Color("#352879")
	colorText   = lipgloss.Color("#6C5EB5")
	colorBorder = lipgloss.Color("#6C5EB5")
	colorTitle  = lipgloss.Color("#9AD284")
	colorTitle2 = lipgloss.Color("#70A4B2")
	colorHelp   = lipgloss.Color("#959595")

	screenStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorScreen).
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorBorder).
			BorderBackground(colorScreen)

	helpStyle = lipgloss.NewStyle().Foreground(colorHelp)
)

const appName = "chiptide"

// View renders the last presented grid, centred in the terminal.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	lines := m.screen.Lines()
	if len(lines) == 0 {
		return ""
	}

	body := screenStyle.Render(strings.Join(lines, "\n"))
	help := helpStyle.Render(ansi.Truncate(
		keymap.HelpLine("global", "search", "playback"),
		lipgloss.Width(body), "…",
	))
	view := lipgloss.JoinVertical(lipgloss.Center,
		applyGradient(appName, colorTitle, colorTitle2),
		body,
		help,
	)

	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}
