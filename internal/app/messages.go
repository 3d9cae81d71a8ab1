package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one session tick.
type TickMsg time.Time

// TickCmd returns a command that sends TickMsg after d.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
