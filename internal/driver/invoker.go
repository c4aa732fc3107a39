package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/satishbabariya/juicebatch/internal/debug"
)

// Mode is the compilation mode requested from the compiler.
type Mode int

const (
	// ModeSingle compiles exactly one file: <exe> -c -f <name>.
	ModeSingle Mode = iota
	// ModeBatch compiles every given file in one process: <exe> -c <names...>.
	ModeBatch
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeBatch:
		return "batch"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Invocation describes one compiler run.
type Invocation struct {
	Mode  Mode
	Dir   string
	Files []string
}

// Args returns the compiler command-line arguments for the invocation.
func (inv Invocation) Args() []string {
	args := []string{"-c"}
	if inv.Mode == ModeSingle {
		args = append(args, "-f")
	}
	return append(args, inv.Files...)
}

// Invoker runs the external compiler. Implementations must block until the
// compiler has exited.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) error
}

// ExecInvoker runs the compiler as a child process.
type ExecInvoker struct {
	Compiler string
	Stdout   io.Writer
	Stderr   io.Writer
}

// NewExecInvoker returns an invoker for the compiler at path. A relative path
// is resolved against the current working directory, since each invocation
// may run in a different directory.
func NewExecInvoker(path string) (*ExecInvoker, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve compiler path: %w", err)
	}
	return &ExecInvoker{
		Compiler: abs,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// Invoke runs the compiler and waits for it to exit.
func (e *ExecInvoker) Invoke(ctx context.Context, inv Invocation) error {
	args := inv.Args()
	cmd := exec.CommandContext(ctx, e.Compiler, args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	debug.Debug("Starting compiler", "compiler", e.Compiler, "dir", inv.Dir, "args", args)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompilerExitError{Args: args, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run compiler %s: %w", e.Compiler, err)
	}
	return nil
}

var _ Invoker = (*ExecInvoker)(nil)
