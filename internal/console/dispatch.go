package console

import "github.com/stlalpha/vgaterm/internal/vga"

const (
	esc       = 0x1B
	backspace = 0x08
)

// PutByte processes one byte. Every value 0-255 is accepted; unhandled
// control and high bytes are ignored.
func (c *Console) PutByte(b byte) {
	switch {
	case b == esc:
		c.inEsc = true
		c.escLen = 0
	case b == '\n':
		c.x = 0
		c.lineFeed()
	case b == '\r':
		c.x = 0
	case b == backspace:
		if c.x > 0 {
			c.x--
			c.w.PutCell(c.x, c.y, ' ', c.color)
		}
	case c.inEsc:
		c.accumulate(b)
	case b >= 0x20 && b < 0x7F:
		c.w.PutCell(c.x, c.y, b, c.color)
		c.x++
		if c.x >= vga.Width {
			c.x = 0
			c.lineFeed()
		}
	}
}

// lineFeed moves down one row, scrolling at the bottom.
func (c *Console) lineFeed() {
	if c.y < vga.Height-1 {
		c.y++
		return
	}
	c.w.ScrollUp(c.color)
}

// accumulate buffers one byte of an open escape sequence and runs the
// decoder when a letter ends it. A letter arriving after the buffer filled
// closes the sequence without decoding it.
func (c *Console) accumulate(b byte) {
	full := c.escLen >= escapeCap
	if !full {
		c.esc[c.escLen] = b
		c.escLen++
	}
	if !isLetter(b) {
		return
	}
	if !full {
		c.decode(c.esc[:c.escLen])
	}
	c.inEsc = false
	c.escLen = 0
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
