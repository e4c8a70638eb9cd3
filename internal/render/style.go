package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/vgaterm/internal/vga"
)

// DOS/VGA palette index to ANSI color index. VGA orders blue before red,
// ANSI the other way round.
var dosColors = [16]string{
	"0",  // 0:  Black
	"4",  // 1:  Blue
	"2",  // 2:  Green
	"6",  // 3:  Cyan
	"1",  // 4:  Red
	"5",  // 5:  Magenta
	"3",  // 6:  Brown
	"7",  // 7:  Light Gray
	"8",  // 8:  Dark Gray
	"12", // 9:  Light Blue
	"10", // 10: Light Green
	"14", // 11: Light Cyan
	"9",  // 12: Light Red
	"13", // 13: Light Magenta
	"11", // 14: Yellow
	"15", // 15: White
}

// attrStyle builds the lipgloss style for a VGA attribute byte
// (blink<<7 | bg<<4 | fg).
func attrStyle(r *lipgloss.Renderer, attr byte) lipgloss.Style {
	st := r.NewStyle().
		Foreground(lipgloss.Color(dosColors[vga.Foreground(attr)])).
		Background(lipgloss.Color(dosColors[vga.Background(attr)]))
	if attr&0x80 != 0 {
		st = st.Blink(true)
	}
	return st
}

// Styled renders s with colors. Runs of cells sharing an attribute are
// styled together. A nil renderer means lipgloss' default (stdout).
func Styled(r *lipgloss.Renderer, s vga.Snapshot) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	var styles [256]*lipgloss.Style
	styleFor := func(attr byte) lipgloss.Style {
		if styles[attr] == nil {
			st := attrStyle(r, attr)
			styles[attr] = &st
		}
		return *styles[attr]
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < vga.Height; y++ {
		row := &s[y]
		start := 0
		for x := 1; x <= vga.Width; x++ {
			if x < vga.Width && row[x].Attr == row[start].Attr {
				continue
			}
			run.Reset()
			for _, c := range row[start:x] {
				run.WriteRune(Glyph(c.Ch))
			}
			b.WriteString(styleFor(row[start].Attr).Render(run.String()))
			start = x
		}
		if y < vga.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
