// Package grid provides the fixed-size glyph grid the session renders into.
package grid

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Grid is a width × height array of glyph codes, mutated in place.
type Grid struct {
	width  int
	height int
	cells  []byte
}

// New creates a grid filled with blanks.
func New(width, height int) *Grid {
	g := &Grid{
		width:  max(width, 1),
		height: max(height, 1),
	}
	g.cells = make([]byte, g.width*g.height)
	g.Fill(Blank, 0, 0, 0, 0)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the glyph at (x, y), or Blank outside the grid.
func (g *Grid) At(x, y int) byte {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Blank
	}
	return g.cells[y*g.width+x]
}

// Fill sets a rectangular region to glyph. A zero width or height extends
// the region to the right or bottom edge of the grid.
func (g *Grid) Fill(glyph byte, x, y, w, h int) {
	x = max(x, 0)
	y = max(y, 0)
	if w <= 0 {
		w = g.width - x
	}
	if h <= 0 {
		h = g.height - y
	}
	x1 := min(x+w, g.width)
	y1 := min(y+h, g.height)
	for row := y; row < y1; row++ {
		line := g.cells[row*g.width : (row+1)*g.width]
		for col := x; col < x1; col++ {
			line[col] = glyph
		}
	}
}

// Print writes text starting at (x, y) through the legacy table, one cell
// per character. Accented letters are folded to their base letter; other
// non-ASCII characters print as a blank.
// Output stops at the end of the row; it never wraps.
func (g *Grid) Print(text string, x, y int) {
	if y < 0 || y >= g.height || x < 0 {
		return
	}
	i := y*g.width + x
	end := (y + 1) * g.width
	for _, r := range Fold(text) {
		if i >= end {
			break
		}
		g.cells[i] = Blank
		if r < utf8.RuneSelf {
			g.cells[i] = Encode(byte(r))
		}
		i++
	}
}

// Fold strips diacritics so "Café" becomes "Cafe". ASCII input is returned as is.
func Fold(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Line returns row y decoded to runes.
func (g *Grid) Line(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	var b strings.Builder
	b.Grow(g.width)
	for _, c := range g.cells[y*g.width : (y+1)*g.width] {
		b.WriteRune(Rune(c))
	}
	return b.String()
}

// Lines returns every row decoded to runes.
func (g *Grid) Lines() []string {
	lines := make([]string, g.height)
	for y := range lines {
		lines[y] = g.Line(y)
	}
	return lines
}
