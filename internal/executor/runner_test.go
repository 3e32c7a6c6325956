package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunner_CapturesStreams(t *testing.T) {
	r := NewShellRunner(0)

	res, err := r.Run(context.Background(), "printf out; printf err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out", res.Stdout)
	assert.Equal(t, "err", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
}

func TestShellRunner_NonZeroExitIsNotAnError(t *testing.T) {
	r := NewShellRunner(0)

	res, err := r.Run(context.Background(), "echo partial; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\n", res.Stdout)
	assert.False(t, res.Success())
}

func TestShellRunner_MissingProgramIsSpawnError(t *testing.T) {
	r := NewShellRunner(0)

	res, err := r.Run(context.Background(), "atkctl-definitely-not-installed --version")
	var spawnErr *SpawnError
	require.True(t, errors.As(err, &spawnErr), "got %v", err)
	assert.Equal(t, 127, res.ExitCode)
}

func TestShellRunner_MissingShellIsSpawnError(t *testing.T) {
	r := &ShellRunner{Shell: "/nonexistent/sh"}

	res, err := r.Run(context.Background(), "true")
	var spawnErr *SpawnError
	require.True(t, errors.As(err, &spawnErr))
	assert.Equal(t, -1, res.ExitCode)
}

func TestShellRunner_Timeout(t *testing.T) {
	r := NewShellRunner(100 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), "sleep 5")
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Contains(t, err.Error(), "timed out")
}

func TestShellRunner_ParentCancel(t *testing.T) {
	r := NewShellRunner(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "sleep 5")
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
