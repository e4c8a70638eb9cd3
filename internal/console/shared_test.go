package console

import (
	"sync"
	"testing"

	"github.com/stlalpha/vgaterm/internal/vga"
)

func TestShared_ConcurrentWritersKeepCursorInRange(t *testing.T) {
	s := NewShared(New(vga.NewBuffer()))
	s.Clear()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Write([]byte("\x1b[31mhello\n\x1b[99;99H"))
				s.PutByte(byte('a' + i))
				_ = s.State()
			}
		}(i)
	}
	wg.Wait()

	st := s.State()
	if st.X < 0 || st.X >= vga.Width || st.Y < 0 || st.Y >= vga.Height {
		t.Fatalf("cursor out of range: (%d,%d)", st.X, st.Y)
	}
}

func TestShared_StateIsConsistent(t *testing.T) {
	s := NewShared(New(vga.NewBuffer()))
	s.Clear()
	s.SetMode(1)
	s.PutString([]byte("\x1b[34mhi\x00ignored"))

	st := s.State()
	if st.Mode != Terminal {
		t.Errorf("mode = %v", st.Mode)
	}
	if st.X != 2 || st.Y != 0 {
		t.Errorf("cursor = (%d,%d)", st.X, st.Y)
	}
	if st.Color != vga.Blue {
		t.Errorf("color = %#x", st.Color)
	}
	if st.Screen[0][1] != (vga.Cell{Ch: 'i', Attr: vga.Blue}) {
		t.Errorf("cell = %+v", st.Screen[0][1])
	}
	if s.Snapshot() != st.Screen {
		t.Error("Snapshot differs from State().Screen")
	}
}

func TestModeString(t *testing.T) {
	if TextEditor.String() != "text" || Terminal.String() != "terminal" {
		t.Errorf("mode names = %q, %q", TextEditor, Terminal)
	}
	if Mode(9).String() != "unknown" {
		t.Errorf("Mode(9) = %q", Mode(9))
	}
}
