package console

import "github.com/stlalpha/vgaterm/internal/vga"

// paramMax saturates numeric parameters; every command clamps anyway.
const paramMax = 9999

// params is the parameter list of one CSI sequence. It lives on the stack.
type params struct {
	vals [escapeCap]int
	set  [escapeCap]bool // Token contained at least one digit
	n    int
}

// parseParams splits p on ';' and folds the digits of each token base 10.
// Bytes other than digits and ';' are skipped.
func parseParams(p []byte) params {
	var ps params
	ps.n = 1
	for _, b := range p {
		switch {
		case b == ';':
			if ps.n < escapeCap {
				ps.n++
			}
		case b >= '0' && b <= '9':
			i := ps.n - 1
			v := ps.vals[i]*10 + int(b-'0')
			if v > paramMax {
				v = paramMax
			}
			ps.vals[i] = v
			ps.set[i] = true
		}
	}
	return ps
}

// get returns parameter i, or def when it is absent or had no digits.
func (ps *params) get(i, def int) int {
	if i >= ps.n || !ps.set[i] {
		return def
	}
	return ps.vals[i]
}

// last returns the final token that carried digits.
func (ps *params) last() (int, bool) {
	for i := ps.n - 1; i >= 0; i-- {
		if ps.set[i] {
			return ps.vals[i], true
		}
	}
	return 0, false
}

// decode interprets seq, the bytes after ESC up to and including the
// terminating letter. Anything that is not a supported CSI command is
// ignored.
func (c *Console) decode(seq []byte) {
	if len(seq) < 2 || seq[0] != '[' {
		return
	}
	ps := parseParams(seq[1 : len(seq)-1])
	switch seq[len(seq)-1] {
	case 'J':
		c.Clear()
	case 'H':
		c.cursorPosition(&ps)
	case 'm':
		c.selectGraphicRendition(&ps)
	case 'A':
		if c.y > 0 {
			c.y--
		}
	case 'B':
		if c.y < vga.Height-1 {
			c.y++
		}
	case 'C':
		if c.x < vga.Width-1 {
			c.x++
		}
	case 'D':
		if c.x > 0 {
			c.x--
		}
	}
}

// cursorPosition handles CSI row;col H with 1-based arguments. A lone
// parameter is the row. With more than two, the row is the last
// ';'-terminated token that had digits and the column is the final token.
func (c *Console) cursorPosition(ps *params) {
	row, col := 1, 1
	if ps.n == 1 {
		row = ps.get(0, 1)
	} else {
		for i := ps.n - 2; i >= 0; i-- {
			if ps.set[i] {
				row = ps.vals[i]
				break
			}
		}
		col = ps.get(ps.n-1, 1)
	}
	c.y = clamp(row-1, vga.Height)
	c.x = clamp(col-1, vga.Width)
}

// sgrColors maps SGR 30-37 to attribute bytes.
var sgrColors = [8]byte{
	vga.Black,
	vga.Red,
	vga.Green,
	vga.Yellow,
	vga.Blue,
	vga.Magenta,
	vga.Cyan,
	vga.White,
}

// selectGraphicRendition uses only the last numeric parameter, so 1;31
// selects red and drops the bold.
func (c *Console) selectGraphicRendition(ps *params) {
	code, ok := ps.last()
	if !ok {
		return
	}
	switch {
	case code == 0:
		c.color = vga.DefaultAttr
	case code >= 30 && code <= 37:
		c.color = sgrColors[code-30]
	}
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}
