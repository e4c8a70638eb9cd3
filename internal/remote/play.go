// Package remote runs a console for a remote client: keystrokes in, full
// ANSI repaints out. The SSH and telnet servers share it.
package remote

import (
	"io"

	"github.com/stlalpha/vgaterm/internal/console"
	"github.com/stlalpha/vgaterm/internal/render"
	"github.com/stlalpha/vgaterm/internal/vga"
)

const (
	keyInterrupt = 0x03 // ^C
	keyEOT       = 0x04 // ^D
	keyDelete    = 0x7F // Sent by most terminals for the backspace key
)

// NewConsole returns a cleared in-memory console in the given mode.
func NewConsole(modeFlag uint32) *console.Console {
	c := console.New(vga.NewBuffer())
	c.SetMode(modeFlag)
	c.Clear()
	return c
}

// Play runs the read/feed/repaint loop on rw until EOF or ^C/^D.
// Enter (CR) also feeds a line feed. DEL is fed as backspace.
func Play(rw io.ReadWriter, c *console.Console) error {
	if err := repaint(rw, c); err != nil {
		return err
	}
	buf := make([]byte, 256)
	for {
		n, err := rw.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case keyInterrupt, keyEOT:
				_, werr := io.WriteString(rw, "\x1b[0m\x1b[2J\x1b[H")
				return werr
			case keyDelete:
				b = 0x08
			}
			c.PutByte(b)
			if b == '\r' {
				c.PutByte('\n')
			}
		}
		if n > 0 {
			if werr := repaint(rw, c); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func repaint(w io.Writer, c *console.Console) error {
	x, y := c.Cursor()
	_, err := w.Write(render.ANSI(c.Snapshot(), x, y))
	return err
}
