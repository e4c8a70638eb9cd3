//go:build !windows

package feed

import (
	"context"
	"os"
	"testing"
)

func TestExec_FeedsPtyOutput(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	s := newShared()
	spec := ExecSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", `printf 'size %s\n\033[31mred' "$COLUMNS"`},
	}

	if err := Exec(context.Background(), s, nil, spec); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	waitForRow(t, s, 0, "size 80")
	waitForRow(t, s, 1, "red")
}

func TestExec_ReportsExitStatus(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	err := Exec(context.Background(), newShared(), nil, ExecSpec{Command: "/bin/sh", Args: []string{"-c", "exit 3"}})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

func TestExec_NoCommand(t *testing.T) {
	if err := Exec(context.Background(), newShared(), nil, ExecSpec{}); err == nil {
		t.Fatal("expected error without command")
	}
}
