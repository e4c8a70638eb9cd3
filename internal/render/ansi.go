package render

import (
	"strconv"
	"unicode/utf8"

	"github.com/stlalpha/vgaterm/internal/vga"
)

// VGA color index 0-7 to the ANSI SGR color offset.
var vgaToANSI = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// ANSI returns a byte stream that repaints a remote VT100/ANSI terminal with
// s and leaves its cursor at (cx, cy). Attributes are emitted only when they
// change; a bright foreground is sent as bold.
func ANSI(s vga.Snapshot, cx, cy int) []byte {
	out := make([]byte, 0, vga.Width*vga.Height*2)
	out = append(out, "\x1b[0m\x1b[H"...)
	cur := -1
	for y := 0; y < vga.Height; y++ {
		if y > 0 {
			out = appendCursor(out, 0, y)
		}
		for x := 0; x < vga.Width; x++ {
			c := s[y][x]
			if int(c.Attr) != cur {
				out = appendSGR(out, c.Attr)
				cur = int(c.Attr)
			}
			out = utf8.AppendRune(out, Glyph(c.Ch))
		}
	}
	out = append(out, "\x1b[0m"...)
	return appendCursor(out, cx, cy)
}

func appendSGR(out []byte, attr byte) []byte {
	fg := vga.Foreground(attr)
	out = append(out, "\x1b[0;"...)
	if fg&vga.Bright != 0 {
		out = append(out, "1;"...)
	}
	if attr&0x80 != 0 {
		out = append(out, "5;"...)
	}
	out = strconv.AppendInt(out, int64(30+vgaToANSI[fg&0x07]), 10)
	out = append(out, ';')
	out = strconv.AppendInt(out, int64(40+vgaToANSI[vga.Background(attr)]), 10)
	return append(out, 'm')
}

// appendCursor emits CUP for the 0-based (x, y).
func appendCursor(out []byte, x, y int) []byte {
	out = append(out, "\x1b["...)
	out = strconv.AppendInt(out, int64(y+1), 10)
	out = append(out, ';')
	out = strconv.AppendInt(out, int64(x+1), 10)
	return append(out, 'H')
}
