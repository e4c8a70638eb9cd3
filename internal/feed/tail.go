package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stlalpha/vgaterm/internal/logging"
)

// Tail feeds the current contents of path into dst, then keeps feeding
// whatever is appended until ctx is done. Bursts of write events are
// coalesced by debounce. If the file shrinks it is read again from the start.
func Tail(ctx context.Context, dst io.Writer, path string, debounce time.Duration) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so a file that is replaced or created late is seen.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("INFO: Following %s", path)

	t := &tailer{path: path, dst: dst}
	if err := t.readNew(); err != nil && !os.IsNotExist(err) {
		return err
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(debounce)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				logging.Debug("%s went away, waiting for it to return", path)
				t.offset = 0
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("ERROR: File watcher error on %s: %v", path, err)

		case <-timer.C:
			if err := t.readNew(); err != nil && !os.IsNotExist(err) {
				log.Printf("WARN: Failed to read %s: %v", path, err)
			}
		}
	}
}

type tailer struct {
	path   string
	dst    io.Writer
	offset int64
}

// readNew copies bytes past the last offset into dst.
func (t *tailer) readNew() error {
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() < t.offset {
		logging.Debug("%s truncated from %d to %d bytes, restarting", t.path, t.offset, fi.Size())
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}
	n, err := io.Copy(t.dst, f)
	t.offset += n
	if err != nil {
		return err
	}
	logging.Debug("fed %d bytes from %s", n, t.path)
	return nil
}
