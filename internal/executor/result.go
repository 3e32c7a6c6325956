package executor

import (
	"fmt"
	"time"
)

// Result is the outcome of a process that was started. A non-zero ExitCode is
// an ordinary outcome, not an error.
type Result struct {
	Command  string        `json:"command"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// SpawnError means the process could not be started, or the shell reported
// that the program was missing (127) or not executable (126).
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError means the configured command timeout elapsed.
type TimeoutError struct {
	Command string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	if e.After > 0 {
		return fmt.Sprintf("command %q timed out after %s", e.Command, e.After)
	}
	return fmt.Sprintf("command %q timed out", e.Command)
}

// RemoteError is returned by the relay when terminus or ssh exit non-zero.
type RemoteError struct {
	Stage  string
	Result *Result
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s exited with status %d: %s", e.Stage, e.Result.ExitCode, firstLine(e.Result.Stderr))
}

// ExitError is returned by Dispatcher.Output when Drush exits non-zero.
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d: %s", e.Result.Command, e.Result.ExitCode, firstLine(e.Result.Stderr))
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
