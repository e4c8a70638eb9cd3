// Package terminalio adapts output streams to what the remote terminal can
// display.
package terminalio

import (
	"io"
	"unicode/utf8"

	"github.com/stlalpha/vgaterm/internal/render"
)

// unmapped replaces runes the VGA font cannot draw.
const unmapped = '?'

// CP437Writer re-encodes a UTF-8 stream as CP437 bytes for DOS-era terminals
// (SyncTERM, NetRunner, real ANSI.SYS). ASCII, and so every ANSI escape
// sequence, passes through unchanged. A rune split across two writes is
// held until its remaining bytes arrive.
type CP437Writer struct {
	w       io.Writer // Underlying writer (e.g. a telnet connection)
	partial []byte    // Incomplete UTF-8 sequence from the last Write
	out     []byte
}

// NewCP437Writer creates a CP437 writer on w.
func NewCP437Writer(w io.Writer) *CP437Writer {
	return &CP437Writer{w: w}
}

// Write implements io.Writer. It reports len(p) on success.
func (cw *CP437Writer) Write(p []byte) (int, error) {
	data := p
	if len(cw.partial) > 0 {
		data = append(cw.partial, p...)
		cw.partial = nil
	}

	cw.out = cw.out[:0]
	for i := 0; i < len(data); {
		b := data[i]
		if b < utf8.RuneSelf {
			cw.out = append(cw.out, b)
			i++
			continue
		}
		if !utf8.FullRune(data[i:]) {
			cw.partial = append([]byte(nil), data[i:]...)
			break
		}
		r, size := utf8.DecodeRune(data[i:])
		i += size
		if g, ok := render.GlyphByte(r); ok {
			cw.out = append(cw.out, g)
		} else {
			cw.out = append(cw.out, unmapped)
		}
	}

	if len(cw.out) > 0 {
		if _, err := cw.w.Write(cw.out); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
