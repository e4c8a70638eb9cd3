//go:build !windows

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"

	"github.com/stlalpha/vgaterm/internal/logging"
	"github.com/stlalpha/vgaterm/internal/vga"
)

// ExecSpec describes a program run on the display's PTY.
type ExecSpec struct {
	Command string
	Args    []string
	Dir     string
	Env     map[string]string
}

// Exec runs spec on a pseudo-terminal sized to the display and feeds its
// output into dst. Bytes read from stdin, if non-nil, go to the program.
// It returns when the program exits or ctx is done.
func Exec(ctx context.Context, dst io.Writer, stdin io.Reader, spec ExecSpec) error {
	if spec.Command == "" {
		return errors.New("exec: no command")
	}
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), "TERM=ansi", fmt.Sprintf("COLUMNS=%d", vga.Width), fmt.Sprintf("LINES=%d", vga.Height))
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	size := &pty.Winsize{Rows: vga.Height, Cols: vga.Width}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return fmt.Errorf("failed to start pty for %s: %w", spec.Command, err)
	}
	defer ptmx.Close()
	log.Printf("INFO: Started %s (pid %d) on %dx%d pty", spec.Command, cmd.Process.Pid, vga.Width, vga.Height)

	if stdin != nil {
		go func() {
			if _, err := io.Copy(ptmx, stdin); err != nil && !errors.Is(err, os.ErrClosed) {
				logging.Debug("stdin copy to pty ended: %v", err)
			}
		}()
	}

	_, copyErr := io.Copy(dst, ptmx)
	// Linux reports EIO on the master once the child side is gone.
	if copyErr != nil && !errors.Is(copyErr, syscall.EIO) && !errors.Is(copyErr, os.ErrClosed) {
		log.Printf("WARN: Error copying pty output of %s: %v", spec.Command, copyErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", spec.Command, err)
	}
	return nil
}
