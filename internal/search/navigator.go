package search

import (
	"strings"
	"unicode"

	"github.com/llehouerou/chiptide/internal/keymap"
)

// Navigator owns the query buffer and the window over its result set.
//
// Invariants after every movement or refresh: marker is -1 when there are
// no results, else 0 <= marker < Len(), and scroll <= marker < scroll+height.
type Navigator struct {
	query      []rune
	dirty      bool
	generation int

	results Results
	marker  int
	scroll  int
	height  int

	repeat Repeat
}

// New creates a navigator showing height result rows.
func New(height int) *Navigator {
	return &Navigator{
		results: noResults{},
		marker:  -1,
		height:  max(height, 1),
	}
}

// Text returns the current query.
func (n *Navigator) Text() string { return string(n.query) }

// Dirty reports whether the query changed since the last Refresh.
func (n *Navigator) Dirty() bool { return n.dirty }

// Generation counts catalog evaluations of the query.
func (n *Navigator) Generation() int { return n.generation }

// Len returns the number of hits in the current result set.
func (n *Navigator) Len() int { return n.results.Len() }

// Marker returns the selected row, or -1 with no hits.
func (n *Navigator) Marker() int { return n.marker }

// Scroll returns the first visible row.
func (n *Navigator) Scroll() int { return n.scroll }

// Height returns the number of visible rows.
func (n *Navigator) Height() int { return n.height }

// Repeat exposes the key-repeat machine state.
func (n *Navigator) Repeat() RepeatState { return n.repeat.State() }

// AddLetter appends a letter, digit or space, folded to lower case.
// Other runes are ignored and false is returned.
func (n *Navigator) AddLetter(r rune) bool {
	r = unicode.ToLower(r)
	if r > unicode.MaxASCII || !(r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return false
	}
	n.query = append(n.query, r)
	n.dirty = true
	return true
}

// RemoveLast drops the last rune of the query. It is a no-op on an empty query.
func (n *Navigator) RemoveLast() {
	if len(n.query) == 0 {
		return
	}
	n.query = n.query[:len(n.query)-1]
	n.dirty = true
}

// Clear empties the query.
func (n *Navigator) Clear() {
	n.query = n.query[:0]
	n.dirty = true
}

// SetText replaces the whole query.
func (n *Navigator) SetText(s string) {
	n.query = []rune(strings.ToLower(s))
	n.dirty = true
}

// Refresh re-runs the query against s if it changed since the last refresh.
// A new result set resets the window to its first row. On error the result
// set is emptied and the error returned.
func (n *Navigator) Refresh(s Searcher) error {
	if !n.dirty {
		return nil
	}
	n.dirty = false
	n.generation++
	n.scroll = 0
	n.repeat.Reset()

	res, err := s.Search(string(n.query))
	if err != nil || res == nil {
		n.results = noResults{}
		n.marker = -1
		return err
	}
	n.results = res
	n.marker = 0
	n.clamp()
	return nil
}

// Navigate applies one tick of vertical input: Up/Down through the repeat
// machine, PageUp/PageDown by a full page.
func (n *Navigator) Navigate(pressed keymap.Key, held func(keymap.Key) bool) {
	switch pressed {
	case keymap.PageUp:
		n.Move(-n.height)
		return
	case keymap.PageDown:
		n.Move(n.height)
		return
	}
	if d := n.repeat.Step(pressed, held); d != 0 {
		n.Move(d)
	}
}

// Move shifts the marker by delta rows, clamped to the result set.
func (n *Navigator) Move(delta int) {
	if n.marker < 0 {
		n.marker = 0
	}
	n.marker += delta
	n.clamp()
}

// Visible returns the rows in the window.
func (n *Navigator) Visible() ([]string, error) {
	if n.results.Len() == 0 {
		return nil, nil
	}
	return n.results.Rows(n.scroll, n.height)
}

// Full returns the complete record for row i.
func (n *Navigator) Full(i int) (string, error) {
	return n.results.Full(i)
}

// clamp bounds the marker and reconciles the scroll position.
func (n *Navigator) clamp() {
	hits := n.results.Len()
	if hits == 0 {
		n.marker = -1
		n.scroll = 0
		return
	}
	n.marker = max(0, min(n.marker, hits-1))

	for n.marker >= n.scroll+n.height {
		n.scroll++
	}
	for n.marker >= 0 && n.marker < n.scroll {
		n.scroll--
	}
}
