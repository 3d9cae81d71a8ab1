package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chiptide/internal/keymap"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keymap.Quit) {
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
		m.keys.Push(keymap.FromTea(msg))
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.session.Tick(m.ctx)
		return m, TickCmd(m.interval)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}
