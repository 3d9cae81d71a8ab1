// Package keymap defines the logical keys polled by the session and their bindings.
package keymap

import "strings"

// Key is one logical key code. Values below 0x100 are the ASCII byte itself.
type Key int

const (
	NoKey Key = 0

	Up Key = 0x100 + iota
	Down
	PageUp
	PageDown
	Left
	Right
	Enter
	Backspace
	Escape
	F1
)

var keyNames = map[Key]string{
	NoKey:     "none",
	Up:        "up",
	Down:      "down",
	PageUp:    "pgup",
	PageDown:  "pgdown",
	Left:      "left",
	Right:     "right",
	Enter:     "enter",
	Backspace: "backspace",
	Escape:    "esc",
	F1:        "f1",
}

// String returns the key name used in bindings and logs.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.Printable() {
		if k == ' ' {
			return "space"
		}
		return string(rune(k))
	}
	return "unknown"
}

// Printable reports whether k is a printable ASCII character.
func (k Key) Printable() bool {
	return k >= 0x20 && k < 0x7f
}

// Rune returns the character for printable keys, 0 otherwise.
func (k Key) Rune() rune {
	if !k.Printable() {
		return 0
	}
	return rune(k)
}

// IsVertical reports whether k moves the selection by one row.
func (k Key) IsVertical() bool {
	return k == Up || k == Down
}

// Binding describes a single key binding for documentation.
type Binding struct {
	Keys        []string
	Description string
	Context     string // "global", "search", "playback"
}

// All contains all key bindings for help generation.
var All = []Binding{
	{[]string{"ctrl+c"}, "Quit", "global"},

	{[]string{"a-z", "0-9", "space"}, "Type query", "search"},
	{[]string{"backspace"}, "Delete last character", "search"},
	{[]string{"esc", "f1"}, "Clear query", "search"},
	{[]string{"up", "down"}, "Move selection", "search"},
	{[]string{"pgup", "pgdown"}, "Move one page", "search"},

	{[]string{"enter"}, "Play selected", "playback"},
	{[]string{"left", "right"}, "Previous/next sub-song", "playback"},
}

// ByContext returns bindings for a specific context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// HelpLine renders the bindings of the given contexts as a single line.
func HelpLine(contexts ...string) string {
	var parts []string
	for _, ctx := range contexts {
		for _, b := range ByContext(ctx) {
			parts = append(parts, strings.Join(b.Keys, "/")+" "+strings.ToLower(b.Description))
		}
	}
	return strings.Join(parts, " · ")
}
