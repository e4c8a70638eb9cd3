package render

import (
	"strings"

	"github.com/stlalpha/vgaterm/internal/vga"
)

// Text renders s as Height lines of decoded glyphs, attributes dropped.
// With trimRight, trailing blanks on each line are removed.
func Text(s vga.Snapshot, trimRight bool) string {
	var b strings.Builder
	b.Grow(vga.Height * (vga.Width + 1))
	for y := 0; y < vga.Height; y++ {
		line := rowString(&s[y])
		if trimRight {
			line = strings.TrimRight(line, " ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func rowString(row *[vga.Width]vga.Cell) string {
	var b strings.Builder
	for _, c := range row {
		b.WriteRune(Glyph(c.Ch))
	}
	return b.String()
}
