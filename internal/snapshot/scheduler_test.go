package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stlalpha/vgaterm/internal/config"
	"github.com/stlalpha/vgaterm/internal/console"
	"github.com/stlalpha/vgaterm/internal/vga"
)

func newSource() *console.Shared {
	s := console.NewShared(console.New(vga.NewBuffer()))
	s.Clear()
	s.Write([]byte("snapshot me"))
	return s
}

func TestCapture_WritesTextDump(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(config.SnapshotConfig{Dir: dir, Keep: 5}, newSource(), true)
	s.now = func() time.Time { return time.Date(2026, 10, 15, 12, 30, 45, 0, time.UTC) }

	path, err := s.Capture()
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if filepath.Base(path) != "screen-20261015-123045.000.txt" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "snapshot me\n\n") {
		t.Errorf("unexpected dump: %q", string(data[:20]))
	}
	if lines := strings.Count(string(data), "\n"); lines != vga.Height {
		t.Errorf("expected %d lines, got %d", vga.Height, lines)
	}
}

func TestCapture_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0644)
	s := NewScheduler(config.SnapshotConfig{Dir: dir, Keep: 2}, newSource(), true)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		if _, err := s.Capture(); err != nil {
			t.Fatalf("Capture %d: %v", i, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"notes.txt", "screen-20260101-000002.000.txt", "screen-20260101-000003.000.txt"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("remaining files = %v, want %v", names, want)
	}
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(config.SnapshotConfig{Dir: t.TempDir(), Schedule: "not a schedule"}, newSource(), true)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStart_CapturesOnSchedule(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(config.SnapshotConfig{Dir: dir, Schedule: "@every 1s"}, newSource(), true)
	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Error("expected at least one scheduled snapshot")
	}
}
