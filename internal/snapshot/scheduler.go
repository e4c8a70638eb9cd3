// Package snapshot dumps the display to text files on a cron schedule.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stlalpha/vgaterm/internal/config"
	"github.com/stlalpha/vgaterm/internal/render"
	"github.com/stlalpha/vgaterm/internal/vga"
)

const (
	filePrefix = "screen-"
	fileSuffix = ".txt"
	timeLayout = "20060102-150405.000"
)

// Source is anything that can hand out a copy of the grid.
type Source interface {
	Snapshot() vga.Snapshot
}

// Scheduler writes a text dump of its source each time the schedule fires.
type Scheduler struct {
	config    config.SnapshotConfig
	src       Source
	trimRight bool
	cron      *cron.Cron
	now       func() time.Time
	mu        sync.Mutex // Serializes Capture
}

// NewScheduler creates a scheduler for src. It does nothing until Start.
func NewScheduler(cfg config.SnapshotConfig, src Source, trimRight bool) *Scheduler {
	return &Scheduler{
		config:    cfg,
		src:       src,
		trimRight: trimRight,
		now:       time.Now,
	}
}

// Start schedules captures and blocks until ctx is done, then waits for a
// running capture to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithSeconds())
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if path, err := s.Capture(); err != nil {
			log.Printf("ERROR: Snapshot failed: %v", err)
		} else {
			log.Printf("INFO: Snapshot written to %s", path)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", s.config.Schedule, err)
	}

	s.cron.Start()
	log.Printf("INFO: Snapshot scheduler running: %s -> %s (keep %d)", s.config.Schedule, s.config.Dir, s.config.Keep)

	<-ctx.Done()

	log.Printf("INFO: Snapshot scheduler stopping...")
	<-s.cron.Stop().Done()
	return nil
}

// Capture writes one dump now and prunes old ones. It returns the file path.
func (s *Scheduler) Capture() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir %s: %w", s.config.Dir, err)
	}
	name := filePrefix + s.now().Format(timeLayout) + fileSuffix
	path := filepath.Join(s.config.Dir, name)
	text := render.Text(s.src.Snapshot(), s.trimRight)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := prune(s.config.Dir, s.config.Keep); err != nil {
		log.Printf("WARN: Failed to prune snapshots in %s: %v", s.config.Dir, err)
	}
	return path, nil
}

// prune removes all but the newest keep dumps in dir. keep <= 0 keeps all.
func prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, filePrefix) && strings.HasSuffix(n, fileSuffix) {
			names = append(names, n)
		}
	}
	if len(names) <= keep {
		return nil
	}
	// Timestamps in the names sort chronologically.
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			return err
		}
	}
	return nil
}
