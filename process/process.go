// Package process spawns external commands.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	tekerrors "github.com/tekutils/tek/errors"
	"github.com/tekutils/tek/logging"
)

// Options control how Run starts a command.
type Options struct {
	// Wait blocks until the command exits.
	Wait bool
	// Pipe captures stdout and stderr instead of inheriting them.
	Pipe bool
	// Dir is the working directory, the current one if empty.
	Dir string
	// Env replaces the environment when not nil.
	Env []string
	// Stdin feeds the command.
	Stdin io.Reader
}

// DefaultOptions waits and captures output.
func DefaultOptions() Options {
	return Options{Wait: true, Pipe: true}
}

// Result is a started command.
type Result struct {
	Cmd      *exec.Cmd
	ExitCode int
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	waited   bool
}

// Run starts args[0] with the remaining args. A command that exits non-zero
// is not an error; check ExitCode. Errors are returned for commands that
// cannot be started or waited for.
func Run(ctx context.Context, args []string, opts Options) (*Result, error) {
	if len(args) == 0 {
		return nil, tekerrors.New(tekerrors.ErrInvalidInput, "no command given")
	}
	logger := logging.Component("process")

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = opts.Stdin

	res := &Result{Cmd: cmd, ExitCode: -1}
	if opts.Pipe {
		cmd.Stdout = &res.stdout
		cmd.Stderr = &res.stderr
	}

	logger.Debug().Strs("args", args).Bool("wait", opts.Wait).Msg("Starting process")
	if err := cmd.Start(); err != nil {
		return nil, tekerrors.Wrapf(err, tekerrors.ErrProcess, "failed to start %s", args[0])
	}
	if !opts.Wait {
		return res, nil
	}
	return res, res.Wait()
}

// Wait waits for the command to exit and records its exit code.
func (r *Result) Wait() error {
	if r.waited {
		return nil
	}
	r.waited = true
	err := r.Cmd.Wait()
	if r.Cmd.ProcessState != nil {
		r.ExitCode = r.Cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) && r.ExitCode >= 0 {
		return nil
	}
	return tekerrors.Wrapf(err, tekerrors.ErrProcess, "failed to wait for %s", r.Cmd.Path)
}

// Stdout is the captured standard output.
func (r *Result) Stdout() string { return r.stdout.String() }

// Stderr is the captured standard error.
func (r *Result) Stderr() string { return r.stderr.String() }

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool { return r.waited && r.ExitCode == 0 }

// Output runs args and returns stdout and stderr combined, split into lines
// without the trailing newline. The exit status is ignored.
func Output(ctx context.Context, args ...string) ([]string, error) {
	if len(args) == 0 {
		return nil, tekerrors.New(tekerrors.ErrInvalidInput, "no command given")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, tekerrors.Wrapf(err, tekerrors.ErrProcess, "failed to run %s", args[0])
	}
	text := strings.TrimSuffix(string(out), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}
