// Package console drives a vga display from a byte stream: plain text,
// line control and a small fixed set of CSI escape sequences.
//
// A Console is single-context. Wrap it in Shared when more than one
// goroutine feeds or reads it.
package console

import "github.com/stlalpha/vgaterm/internal/vga"

// Mode selects the behavioral variant. It is recorded and reported but byte
// processing is identical in both modes.
type Mode uint8

const (
	TextEditor Mode = iota // Plain text output
	Terminal               // ANSI terminal emulation
)

func (m Mode) String() string {
	switch m {
	case TextEditor:
		return "text"
	case Terminal:
		return "terminal"
	}
	return "unknown"
}

// escapeCap is the most bytes kept between ESC and the terminating letter.
const escapeCap = 32

// Console holds the cursor, color and escape-sequence state for one display.
type Console struct {
	w *vga.Writer

	mode  Mode
	x, y  int // Cursor column and row, always inside the grid
	color byte

	esc    [escapeCap]byte
	escLen int
	inEsc  bool // Between ESC and the sequence terminator
}

// New returns a console writing to mem in TextEditor mode, cursor home and
// the default color. Display memory is left as is.
func New(mem vga.Memory) *Console {
	return &Console{
		w:     vga.NewWriter(mem),
		mode:  TextEditor,
		color: vga.DefaultAttr,
	}
}

// SetMode selects TextEditor for 0 and Terminal for anything else.
func (c *Console) SetMode(flag uint32) {
	if flag == 0 {
		c.mode = TextEditor
	} else {
		c.mode = Terminal
	}
}

// Mode reports the current mode.
func (c *Console) Mode() Mode { return c.mode }

// Cursor returns the column and row the next glyph will be written to.
func (c *Console) Cursor() (x, y int) { return c.x, c.y }

// Color returns the attribute byte used for writes.
func (c *Console) Color() byte { return c.color }

// PutString feeds p one byte at a time, stopping at the first zero byte.
func (c *Console) PutString(p []byte) {
	for _, b := range p {
		if b == 0 {
			return
		}
		c.PutByte(b)
	}
}

// Clear blanks the display in the current color and homes the cursor.
func (c *Console) Clear() {
	c.w.Clear(c.color)
	c.x, c.y = 0, 0
}

// Write feeds every byte of p. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		c.PutByte(b)
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (c *Console) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		c.PutByte(s[i])
	}
	return len(s), nil
}

// Snapshot copies the display grid.
func (c *Console) Snapshot() vga.Snapshot {
	return c.w.Snapshot()
}
