// Package render turns display snapshots into text for people: plain
// CP437-decoded rows, lipgloss-styled rows, and ANSI repaint streams for
// remote terminals.
package render

import "golang.org/x/text/encoding/charmap"

// lowGlyphs are the VGA ROM font shapes for bytes 0x00-0x1F, which CP437
// codecs treat as control codes.
var lowGlyphs = [32]rune{
	' ', '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
}

// Glyph returns the Unicode rune the VGA font draws for character byte b.
func Glyph(b byte) rune {
	switch {
	case b < 0x20:
		return lowGlyphs[b]
	case b == 0x7F:
		return '⌂'
	}
	return charmap.CodePage437.DecodeByte(b)
}

var glyphBytes = func() map[rune]byte {
	m := make(map[rune]byte, 256)
	for i := 1; i < 256; i++ {
		m[Glyph(byte(i))] = byte(i)
	}
	return m
}()

// GlyphByte is the inverse of Glyph. The blank maps to 0x20.
func GlyphByte(r rune) (byte, bool) {
	b, ok := glyphBytes[r]
	return b, ok
}
