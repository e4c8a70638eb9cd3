package remote

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stlalpha/vgaterm/internal/console"
	"github.com/stlalpha/vgaterm/internal/vga"
)

type pipe struct {
	in  io.Reader
	out bytes.Buffer
}

func (p *pipe) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *pipe) Write(b []byte) (int, error) { return p.out.Write(b) }

func TestNewConsole(t *testing.T) {
	c := NewConsole(1)
	if c.Mode() != console.Terminal {
		t.Errorf("mode = %v, want terminal", c.Mode())
	}
	if s := c.Snapshot(); s[24][79] != (vga.Cell{Ch: ' ', Attr: vga.DefaultAttr}) {
		t.Errorf("console not cleared: %+v", s[24][79])
	}
}

func TestPlay(t *testing.T) {
	c := NewConsole(1)
	p := &pipe{in: strings.NewReader("\x1b[32mab\rcd\x7f\x03ignored")}

	if err := Play(p, c); err != nil {
		t.Fatalf("Play: %v", err)
	}

	s := c.Snapshot()
	if s[0][0] != (vga.Cell{Ch: 'a', Attr: vga.Green}) {
		t.Errorf("row 0 = %+v", s[0][0])
	}
	if s[1][0].Ch != 'c' || s[1][1].Ch != ' ' {
		t.Errorf("row 1 = %q%q, want c and erased d", s[1][0].Ch, s[1][1].Ch)
	}
	if x, y := c.Cursor(); x != 1 || y != 1 {
		t.Errorf("cursor = %d,%d, want 1,1", x, y)
	}
	if s[1][2].Ch == 'i' {
		t.Error("bytes after ^C were processed")
	}

	out := p.out.String()
	if !strings.HasPrefix(out, "\x1b[0m\x1b[H") {
		t.Errorf("output does not start with a repaint: %q", out[:12])
	}
	if !strings.HasSuffix(out, "\x1b[0m\x1b[2J\x1b[H") {
		t.Error("output does not end by clearing the client screen")
	}
}

func TestPlay_EOF(t *testing.T) {
	c := NewConsole(0)
	p := &pipe{in: strings.NewReader("hi")}
	if err := Play(p, c); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if s := c.Snapshot(); s[0][1].Ch != 'i' {
		t.Errorf("row 0 = %q", s[0][1].Ch)
	}
}
