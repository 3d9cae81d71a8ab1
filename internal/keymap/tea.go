package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Quit is handled by the frontend before keys reach the session.
var Quit = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "quit"),
)

// FromTea translates a terminal key event into a logical key.
// Keys with no logical meaning translate to NoKey.
func FromTea(msg tea.KeyMsg) Key {
	switch msg.Type { //nolint:exhaustive // only navigation keys are mapped
	case tea.KeyUp:
		return Up
	case tea.KeyDown:
		return Down
	case tea.KeyPgUp:
		return PageUp
	case tea.KeyPgDown:
		return PageDown
	case tea.KeyLeft:
		return Left
	case tea.KeyRight:
		return Right
	case tea.KeyEnter:
		return Enter
	case tea.KeyBackspace:
		return Backspace
	case tea.KeyEsc:
		return Escape
	case tea.KeyF1:
		return F1
	case tea.KeySpace:
		return Key(' ')
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Alt {
			return NoKey
		}
		k := Key(msg.Runes[0])
		if !k.Printable() {
			return NoKey
		}
		return k
	}
	return NoKey
}
