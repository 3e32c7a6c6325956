package executor

import (
	"context"
	"errors"
	"testing"

	"atkctl/internal/drush"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pantheonInfo = `{"sftp_command":"sftp -o Port=2222 dev.abc@appserver.dev.abc.drush.in","sftp_host":"appserver.dev.abc.drush.in","git_port":2222}`

func TestBuildSSHCommand(t *testing.T) {
	tests := []struct {
		name string
		sftp string
		want string
	}{
		{
			name: "pantheon default",
			sftp: "sftp -o Port=2222 dev.abc@appserver.dev.abc.drush.in",
			want: "ssh -T dev.abc@appserver.dev.abc.drush.in -p 2222 -o 'StrictHostKeyChecking=no' -o 'AddressFamily inet' 'drush status'",
		},
		{
			name: "compact port option",
			sftp: "sftp -oPort=2200 live.abc@host",
			want: "ssh -T live.abc@host -p 2200 -o 'StrictHostKeyChecking=no' -o 'AddressFamily inet' 'drush status'",
		},
		{
			name: "no port falls back to 2222",
			sftp: "sftp user@host",
			want: "ssh -T user@host -p 2222 -o 'StrictHostKeyChecking=no' -o 'AddressFamily inet' 'drush status'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSSHCommand(tt.sftp, "drush status")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSSHCommand_QuotesRemoteCommand(t *testing.T) {
	got, err := BuildSSHCommand("sftp -o Port=2222 u@h", "drush user:create 'alice'")
	require.NoError(t, err)
	assert.Contains(t, got, `'drush user:create '\''alice'\'''`)
}

func TestBuildSSHCommand_Rejects(t *testing.T) {
	for _, sftp := range []string{"", "scp u@h", "sftp -o Port=2222"} {
		_, err := BuildSSHCommand(sftp, "drush status")
		var pe *drush.ParseError
		assert.True(t, errors.As(err, &pe), "sftp %q: %v", sftp, err)
	}
}

func TestRelay_Execute(t *testing.T) {
	runner := (&fakeRunner{}).
		on("terminus connection:info", &Result{Stdout: pantheonInfo}, nil).
		on("ssh ", &Result{Stdout: "Drupal version : 10.3\n"}, nil)

	relay := NewRelay(runner, "terminus", "abc", "dev")
	res, err := relay.Execute(context.Background(), "drush status")
	require.NoError(t, err)
	assert.Equal(t, "Drupal version : 10.3\n", res.Stdout)

	cmds := runner.recorded()
	require.Len(t, cmds, 2)
	assert.Equal(t, "terminus connection:info abc.dev --format=json", cmds[0])
	assert.Contains(t, cmds[1], "dev.abc@appserver.dev.abc.drush.in")
	assert.Contains(t, cmds[1], "-p 2222")
	assert.Contains(t, cmds[1], "-o 'StrictHostKeyChecking=no'")
	assert.Contains(t, cmds[1], "-o 'AddressFamily inet'")
	assert.Contains(t, cmds[1], "'drush status'")
}

func TestRelay_FetchesConnectionInfoEveryTime(t *testing.T) {
	runner := (&fakeRunner{}).
		on("terminus", &Result{Stdout: pantheonInfo}, nil).
		on("ssh", &Result{}, nil)
	relay := NewRelay(runner, "", "abc", "dev")

	for i := 0; i < 2; i++ {
		_, err := relay.Execute(context.Background(), "drush cr")
		require.NoError(t, err)
	}
	assert.Len(t, runner.recorded(), 4)
}

func TestRelay_InvalidConnectionInfo(t *testing.T) {
	runner := (&fakeRunner{}).on("terminus", &Result{Stdout: "[error] Not authorized"}, nil)
	relay := NewRelay(runner, "terminus", "abc", "dev")

	_, err := relay.Execute(context.Background(), "drush status")
	var pe *drush.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Len(t, runner.recorded(), 1, "ssh must not run")
}

func TestRelay_MissingSFTPCommand(t *testing.T) {
	runner := (&fakeRunner{}).on("terminus", &Result{Stdout: `{"git_host":"x"}`}, nil)
	_, err := NewRelay(runner, "terminus", "abc", "dev").Execute(context.Background(), "drush status")
	var pe *drush.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestRelay_TerminusFailure(t *testing.T) {
	runner := (&fakeRunner{}).on("terminus", &Result{ExitCode: 1, Stderr: "You are not logged in."}, nil)
	_, err := NewRelay(runner, "terminus", "abc", "dev").Execute(context.Background(), "drush status")

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "connection:info", re.Stage)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestRelay_SSHNonZeroExitPropagates(t *testing.T) {
	runner := (&fakeRunner{}).
		on("terminus", &Result{Stdout: pantheonInfo}, nil).
		on("ssh", &Result{ExitCode: 255, Stderr: "Connection refused"}, nil)

	res, err := NewRelay(runner, "terminus", "abc", "dev").Execute(context.Background(), "drush status")
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "ssh", re.Stage)
	require.NotNil(t, res)
	assert.Equal(t, 255, res.ExitCode)
}

func TestRelay_SpawnFailure(t *testing.T) {
	spawn := &SpawnError{Command: "terminus", Err: errors.New("not found")}
	runner := (&fakeRunner{}).on("terminus", &Result{ExitCode: 127}, spawn)

	_, err := NewRelay(runner, "terminus", "abc", "dev").Execute(context.Background(), "drush status")
	var se *SpawnError
	assert.True(t, errors.As(err, &se))
}
