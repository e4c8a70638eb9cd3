package feed

import (
	"context"
	"errors"
	"io"
)

// ExecSpec describes a program run on the display's PTY.
type ExecSpec struct {
	Command string
	Args    []string
	Dir     string
	Env     map[string]string
}

// Exec is not supported on Windows.
func Exec(ctx context.Context, dst io.Writer, stdin io.Reader, spec ExecSpec) error {
	return errors.New("exec: pseudo-terminals are not supported on windows")
}
