package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Runner executes a shell command line.
type Runner interface {
	Run(ctx context.Context, command string) (*Result, error)
}

const defaultShell = "/bin/sh"

// ShellRunner runs command lines through a POSIX shell, capturing both
// streams.
type ShellRunner struct {
	// Shell defaults to /bin/sh.
	Shell string
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewShellRunner returns a ShellRunner with the given timeout.
func NewShellRunner(timeout time.Duration) *ShellRunner {
	return &ShellRunner{Timeout: timeout}
}

// Run executes command with `sh -c`. It returns a Result for every process
// that started, even on error.
func (r *ShellRunner) Run(ctx context.Context, command string) (*Result, error) {
	shell := r.Shell
	if shell == "" {
		shell = defaultShell
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	configureProcessGroup(cmd)
	cmd.WaitDelay = 2 * time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	runErr := cmd.Run()

	result := &Result{
		Command:  command,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, &TimeoutError{Command: command, After: r.Timeout}
		}
		return result, ctxErr
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			switch result.ExitCode {
			case 126, 127:
				return result, &SpawnError{Command: command, Err: fmt.Errorf("shell exit %d: %s", result.ExitCode, firstLine(result.Stderr))}
			}
			return result, nil
		}
		result.ExitCode = -1
		return result, &SpawnError{Command: command, Err: runErr}
	}

	return result, nil
}
