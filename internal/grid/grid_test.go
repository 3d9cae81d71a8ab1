package grid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want byte
	}{
		{"control maps to blank", 0x07, Blank},
		{"space identity", ' ', ' '},
		{"digit identity", '7', '7'},
		{"question mark identity", '?', '?'},
		{"percent identity", '%', '%'},
		{"at sign", '@', 0},
		{"uppercase A", 'A', 65},
		{"uppercase Z", 'Z', 90},
		{"lowercase a", 'a', 1},
		{"lowercase z", 'z', 26},
		{"bracket blank", '[', Blank},
		{"backtick blank", '`', Blank},
		{"tilde blank", '~', Blank},
		{"high byte blank", 0xe9, Blank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in))
		})
	}
}

func TestRuneRoundTrip(t *testing.T) {
	for _, c := range "@ABCXYZabcxyz0123456789 /?%>" {
		assert.Equal(t, c, Rune(Encode(byte(c))), "char %q", c)
	}
}

func TestNewIsBlank(t *testing.T) {
	g := New(40, 25)
	assert.Equal(t, 40, g.Width())
	assert.Equal(t, 25, g.Height())
	for _, line := range g.Lines() {
		assert.Equal(t, strings.Repeat(" ", 40), line)
	}
}

func TestPrintClipsAtRowEnd(t *testing.T) {
	g := New(10, 2)
	g.Print("hello world", 3, 0)

	assert.Equal(t, "   hello w", g.Line(0))
	assert.Equal(t, strings.Repeat(" ", 10), g.Line(1), "print must not wrap")
}

func TestPrintOutsideGridIgnored(t *testing.T) {
	g := New(4, 2)
	g.Print("x", 0, 5)
	g.Print("x", 0, -1)
	g.Print("x", 9, 0)
	assert.Equal(t, []string{"    ", "    "}, g.Lines())
}

func TestFill(t *testing.T) {
	g := New(6, 4)
	for y := range 4 {
		g.Print("abcdef", 0, y)
	}

	g.Fill(Blank, 1, 1, 0, 1)
	assert.Equal(t, "abcdef", g.Line(0))
	assert.Equal(t, "a     ", g.Line(1))
	assert.Equal(t, "abcdef", g.Line(2))

	g.Fill(Blank, 2, 2, 0, 0)
	assert.Equal(t, "ab    ", g.Line(2))
	assert.Equal(t, "ab    ", g.Line(3))

	g.Fill(Blank, 0, 0, 2, 1)
	assert.Equal(t, "  cdef", g.Line(0))
}

func TestAt(t *testing.T) {
	g := New(3, 3)
	g.Print(">", 0, 2)
	assert.Equal(t, byte('>'), g.At(0, 2))
	assert.Equal(t, Blank, g.At(5, 5))
}

func TestPrintFoldsAccents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "Commando", "Commando  "},
		{"acute", "Café|", "Cafe|     "},
		{"several", "Söderström", "Soderstrom"},
		{"no base letter", "Straße|", "Stra e|   "},
		{"invalid utf8", "a\xe9b", "a b       "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(10, 1)
			g.Print(tt.in, 0, 0)
			assert.Equal(t, tt.want, g.Line(0))
		})
	}
}

func TestPrintAccentsKeepColumns(t *testing.T) {
	g := New(20, 1)
	g.Print("Noël", 0, 0)
	g.Print("X", 4, 0)
	assert.Equal(t, "NoelX", strings.TrimRight(g.Line(0), " "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Jeroen Tel", Fold("Jeroen Tel"))
	assert.Equal(t, "Ake Hedstrom", Fold("Åke Hedström"))
}
