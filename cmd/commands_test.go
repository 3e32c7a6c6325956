package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"atkctl/internal/executor"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner answers commands by prefix and records what it was asked.
type scriptedRunner struct {
	mu       sync.Mutex
	commands []string
	replies  map[string]*executor.Result
}

func (r *scriptedRunner) Run(ctx context.Context, command string) (*executor.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
	for prefix, res := range r.replies {
		if strings.HasPrefix(command, prefix) {
			copied := *res
			copied.Command = command
			return &copied, nil
		}
	}
	return &executor.Result{Command: command}, nil
}

func (r *scriptedRunner) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

type cmdEnv struct {
	dir    string
	runner *scriptedRunner
}

func newCmdEnv(t *testing.T) *cmdEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := "drushCmd: drush\n" +
		"baseUrl: https://site.test\n" +
		"authDir: " + filepath.Join(dir, "auth") + "\n" +
		"dataDir: " + filepath.Join(dir, "data") + "\n" +
		"testDir: " + filepath.Join(dir, "tests") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "atk.yaml"), []byte(cfg), 0o600))

	env := &cmdEnv{dir: dir, runner: &scriptedRunner{replies: map[string]*executor.Result{}}}

	saved := newDispatcher
	t.Cleanup(func() { newDispatcher = saved })
	newDispatcher = func() *executor.Dispatcher {
		return executor.NewDispatcher(atkConfig, env.runner)
	}
	return env
}

// execute runs a freshly built command tree so flag state does not leak
// between tests.
func (e *cmdEnv) execute(args ...string) (string, string, error) {
	root := &cobra.Command{
		Use:               "atkctl",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "")
	root.AddCommand(
		newVersionCmd(),
		newDrushCmd(),
		newUserCmd(),
		newEntityCmd(),
		newCsetCmd(),
		newFpropCmd(),
		newULICmd(),
		newSessionCmd(),
		newTestCmd(),
	)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(e.dir, "atk.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDrushCommand_PassesOptionsThrough(t *testing.T) {
	env := newCmdEnv(t)
	env.runner.replies["drush user:info"] = &executor.Result{Stdout: "[]\n"}

	out, _, err := env.execute("drush", "user:info", "--", "--mail=qa@example.com", "--format=json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
	assert.Equal(t, []string{"drush user:info --mail=qa@example.com --format=json"}, env.runner.recorded())
}

func TestDrushCommand_MultiWordCommand(t *testing.T) {
	env := newCmdEnv(t)

	_, _, err := env.execute("drush", "cset", "--", "-y", "system.site", "name", "QA")
	require.NoError(t, err)
	assert.Equal(t, []string{"drush cset system.site name QA -y"}, env.runner.recorded())
}

func TestDrushCommand_RelaysExitStatus(t *testing.T) {
	env := newCmdEnv(t)
	env.runner.replies["drush status"] = &executor.Result{ExitCode: 3, Stderr: "bootstrap failed\n"}

	_, stderr, err := env.execute("drush", "status")
	var exitErr *exitCodeError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.code)
	assert.Equal(t, "bootstrap failed\n", stderr)
}

func TestUserCreateCommand(t *testing.T) {
	env := newCmdEnv(t)
	env.runner.replies["drush user:create"] = &executor.Result{Stdout: "Created a new user with uid 17\n"}

	out, _, err := env.execute("user", "create", "--name", "qa-editor", "--email", "qa@example.com",
		"--password", "secret", "--role", "editor")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"drush user:create 'qa-editor' --mail='qa@example.com' --password='secret'",
		"drush user:role:add 'editor' 'qa-editor'",
	}, env.runner.recorded())
	assert.Contains(t, out, `"uid": 17`)
	assert.Contains(t, out, `"userName": "qa-editor"`)
}

func TestUserDeleteCommand(t *testing.T) {
	env := newCmdEnv(t)

	_, _, err := env.execute("user", "delete")
	require.Error(t, err)
	assert.Empty(t, env.runner.recorded())

	_, _, err = env.execute("user", "delete", "--uid", "0")
	require.Error(t, err)
	assert.Empty(t, env.runner.recorded())

	_, _, err = env.execute("user", "delete", "--email", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"drush user:cancel -y dummy --mail='a@example.com' --delete-content"}, env.runner.recorded())
}

func TestEntityDeleteCommand_RejectsUnknownType(t *testing.T) {
	env := newCmdEnv(t)

	_, _, err := env.execute("entity", "delete", "widget", "4")
	require.Error(t, err)
	assert.Empty(t, env.runner.recorded())

	_, _, err = env.execute("entity", "delete", "node", "4")
	require.NoError(t, err)
	assert.Equal(t, []string{"drush entity:delete node 4"}, env.runner.recorded())
}

func TestCsetCommand_QuotesValues(t *testing.T) {
	env := newCmdEnv(t)

	_, _, err := env.execute("cset", "system.site", "name", "QA site; echo X")
	require.NoError(t, err)
	assert.Equal(t, []string{"drush cset -y 'system.site' 'name' 'QA site; echo X'"}, env.runner.recorded())
}

func TestULICommand_CopiesToClipboard(t *testing.T) {
	env := newCmdEnv(t)
	env.runner.replies["drush user:login"] = &executor.Result{Stdout: "https://site.test/user/reset/1/abc/login\n"}

	var copied string
	saved := writeClipboard
	t.Cleanup(func() { writeClipboard = saved })
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	out, stderr, err := env.execute("uli", "--copy")
	require.NoError(t, err)
	assert.Equal(t, "https://site.test/user/reset/1/abc/login\n", out)
	assert.Equal(t, "https://site.test/user/reset/1/abc/login", copied)
	assert.Contains(t, stderr, "Copied to clipboard")
	assert.Equal(t, []string{"drush user:login --uid=1 --uri=https://site.test"}, env.runner.recorded())
}

func TestSessionClearCommand(t *testing.T) {
	env := newCmdEnv(t)
	auth := filepath.Join(env.dir, "auth")
	require.NoError(t, os.MkdirAll(auth, 0o700))

	out, _, err := env.execute("session", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed all sessions in "+auth+"\n", out)

	out, _, err = env.execute("session", "clear", "qa-editor")
	require.NoError(t, err)
	assert.Equal(t, "Removed session for qa-editor\n", out)
}

func writeScenario(t *testing.T, env *cmdEnv, name, body string) string {
	t.Helper()
	dir := filepath.Join(env.dir, "tests", "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const statusScenario = `
name: site-status
tags: [smoke]
steps:
  - kind: drush
    command: status
    options: ["--field=bootstrap"]
    expected:
      contains: ["Successful"]
`

func TestTestCommand_ValidateAndList(t *testing.T) {
	env := newCmdEnv(t)
	file := writeScenario(t, env, "status.yaml", statusScenario)

	out, _, err := env.execute("test", "--validate")
	require.NoError(t, err)
	assert.Equal(t, "1 scenarios in "+filepath.Dir(file)+" are valid\n", out)

	out, _, err = env.execute("test", "--list")
	require.NoError(t, err)
	assert.Equal(t, "site-status\t1 steps\t"+file+"\n", out)
	assert.Empty(t, env.runner.recorded())
}

func TestTestCommand_RunsDrushScenario(t *testing.T) {
	env := newCmdEnv(t)
	writeScenario(t, env, "status.yaml", statusScenario)
	env.runner.replies["drush status"] = &executor.Result{Stdout: "Successful\n"}

	out, _, err := env.execute("test", "--format", "quiet")
	require.NoError(t, err)
	assert.Equal(t, "All 1 scenarios passed\n", out)
	assert.Equal(t, []string{"drush status --field=bootstrap"}, env.runner.recorded())
}

func TestTestCommand_FailureExitsNonZero(t *testing.T) {
	env := newCmdEnv(t)
	writeScenario(t, env, "status.yaml", statusScenario)
	env.runner.replies["drush status"] = &executor.Result{Stdout: "Failed\n"}

	_, _, err := env.execute("test", "--format", "quiet")
	var exitErr *exitCodeError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.code)
}

func TestVersionCommand(t *testing.T) {
	env := newCmdEnv(t)
	SetVersion("1.4.0")

	out, _, err := env.execute("version")
	require.NoError(t, err)
	assert.Equal(t, "atkctl version 1.4.0\n", out)
}
