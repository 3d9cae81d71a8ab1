package grid

// Blank is the glyph used for cleared cells and unmapped characters.
const Blank byte = 0x20

var (
	asciiToGlyph [256]byte
	glyphToRune  [256]rune
)

func init() {
	for i := range 256 {
		asciiToGlyph[i] = Blank
		glyphToRune[i] = ' '
	}
	for c := 0x20; c <= '?'; c++ {
		asciiToGlyph[c] = byte(c)
		glyphToRune[c] = rune(c)
	}
	asciiToGlyph['@'] = 0
	glyphToRune[0] = '@'
	for c := 'A'; c <= 'Z'; c++ {
		g := byte(c-'A') + 65
		asciiToGlyph[c] = g
		glyphToRune[g] = c
	}
	for c := 'a'; c <= 'z'; c++ {
		g := byte(c-'a') + 1
		asciiToGlyph[c] = g
		glyphToRune[g] = c
	}
}

// Encode translates an ASCII byte into its legacy glyph code.
func Encode(c byte) byte {
	return asciiToGlyph[c]
}

// Rune translates a glyph code back to a displayable rune.
func Rune(g byte) rune {
	return glyphToRune[g]
}
