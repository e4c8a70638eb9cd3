package console

import (
	"sync"

	"github.com/stlalpha/vgaterm/internal/vga"
)

// Shared serializes access to a Console for callers on several goroutines,
// e.g. a PTY reader feeding output while a viewer takes snapshots.
type Shared struct {
	mu sync.Mutex
	c  *Console
}

// NewShared guards c. c must not be used directly afterwards.
func NewShared(c *Console) *Shared {
	return &Shared{c: c}
}

func (s *Shared) PutByte(b byte) {
	s.mu.Lock()
	s.c.PutByte(b)
	s.mu.Unlock()
}

func (s *Shared) PutString(p []byte) {
	s.mu.Lock()
	s.c.PutString(p)
	s.mu.Unlock()
}

// Write feeds all of p as one unit; no other caller's bytes interleave.
func (s *Shared) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Write(p)
}

func (s *Shared) Clear() {
	s.mu.Lock()
	s.c.Clear()
	s.mu.Unlock()
}

func (s *Shared) SetMode(flag uint32) {
	s.mu.Lock()
	s.c.SetMode(flag)
	s.mu.Unlock()
}

// State is a consistent view of the console taken under one lock.
type State struct {
	Screen vga.Snapshot
	X, Y   int
	Color  byte
	Mode   Mode
}

// State copies grid, cursor, color and mode together.
func (s *Shared) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y := s.c.Cursor()
	return State{
		Screen: s.c.Snapshot(),
		X:      x,
		Y:      y,
		Color:  s.c.Color(),
		Mode:   s.c.Mode(),
	}
}

// Snapshot copies the grid.
func (s *Shared) Snapshot() vga.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Snapshot()
}
