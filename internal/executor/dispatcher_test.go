package executor

import (
	"context"
	"errors"
	"testing"

	"atkctl/internal/config"
	"atkctl/internal/drush"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(drushCmd string) config.AtkConfig {
	cfg := config.GetDefaultConfig()
	cfg.DrushCmd = drushCmd
	return cfg
}

func remoteConfig() config.AtkConfig {
	cfg := config.GetDefaultConfig()
	cfg.DrushCmd = "ddev drush"
	cfg.Pantheon = config.PantheonConfig{IsTarget: true, Site: "abc", Environment: "dev"}
	return cfg
}

func TestTargetFromConfig(t *testing.T) {
	assert.Equal(t, LocalTarget(), TargetFromConfig(localConfig("drush")))
	assert.Equal(t, "local", LocalTarget().String())

	target := TargetFromConfig(remoteConfig())
	assert.True(t, target.IsRemote())
	assert.Equal(t, "pantheon:abc.dev", target.String())
}

func TestDispatcher_LocalUsesConfiguredAlias(t *testing.T) {
	runner := &fakeRunner{otherwise: &Result{Stdout: "ok"}}
	d := NewDispatcher(localConfig("lando drush"), runner)

	res, err := d.Execute(context.Background(), drush.New("cr"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Stdout)
	assert.Equal(t, []string{"lando drush cr"}, runner.recorded())
	assert.Equal(t, "lando drush", d.Alias())
}

func TestDispatcher_LocalNonZeroExitIsResult(t *testing.T) {
	runner := &fakeRunner{otherwise: &Result{ExitCode: 1, Stderr: "[error] no such user"}}
	d := NewDispatcher(localConfig("drush"), runner)

	res, err := d.Execute(context.Background(), drush.New("user:info"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	_, err = d.Output(context.Background(), drush.New("user:info"))
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, err.Error(), "no such user")
}

func TestDispatcher_RemoteIgnoresLocalAlias(t *testing.T) {
	runner := (&fakeRunner{}).
		on("terminus connection:info", &Result{Stdout: pantheonInfo}, nil).
		on("ssh", &Result{Stdout: "done"}, nil)
	d := NewDispatcher(remoteConfig(), runner)

	out, err := d.Output(context.Background(), drush.New("cr"))
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, "drush", d.Alias())

	cmds := runner.recorded()
	require.Len(t, cmds, 2)
	assert.Contains(t, cmds[1], "'drush cr'")
	assert.NotContains(t, cmds[1], "ddev")
}

func TestDispatcher_InvalidSpecNeverRuns(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(localConfig("drush"), runner)

	_, err := d.Execute(context.Background(), drush.Spec{})
	assert.True(t, errors.Is(err, drush.ErrEmptyCommand))
	assert.Empty(t, runner.recorded())
}

func TestDispatcher_SpawnErrorPropagates(t *testing.T) {
	runner := (&fakeRunner{}).on("drush", &Result{ExitCode: 127}, &SpawnError{Command: "drush", Err: errors.New("missing")})
	d := NewDispatcher(localConfig("drush"), runner)

	_, err := d.Output(context.Background(), drush.New("status"))
	var se *SpawnError
	assert.True(t, errors.As(err, &se))
}

func TestDispatcher_RealShell(t *testing.T) {
	d := NewDispatcher(localConfig("echo"), NewShellRunner(0))

	out, err := d.Output(context.Background(), drush.Spec{
		Command: "user:create",
		Args:    []string{"'alice'"},
		Options: []string{"--mail='a@example.com'"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user:create alice --mail=a@example.com\n", out)
}

func TestRedact(t *testing.T) {
	assert.Equal(t,
		"drush user:create 'a' --mail='a@x' --password=***",
		Redact("drush user:create 'a' --mail='a@x' --password='s3cr et'"))
	assert.Equal(t, "drush status", Redact("drush status"))
}
