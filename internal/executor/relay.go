package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"atkctl/internal/drush"
	"atkctl/pkg/logging"

	shlex "github.com/anmitsu/go-shlex"
)

const defaultPantheonSSHPort = "2222"

// ConnectionInfo is the subset of `terminus connection:info --format=json`
// the relay needs.
type ConnectionInfo struct {
	SFTPCommand  string `json:"sftp_command"`
	SFTPUsername string `json:"sftp_username"`
	SFTPHost     string `json:"sftp_host"`
	GitCommand   string `json:"git_command"`
}

// Relay runs composed Drush commands on a Pantheon environment. Terminus'
// own remote:drush never returns, so the relay asks Terminus for the SFTP
// connection string and reuses its credentials for a plain ssh call.
type Relay struct {
	runner      Runner
	terminusCmd string
	site        string
	environment string
}

// NewRelay creates a relay for site.environment.
func NewRelay(runner Runner, terminusCmd, site, environment string) *Relay {
	if terminusCmd == "" {
		terminusCmd = "terminus"
	}
	return &Relay{
		runner:      runner,
		terminusCmd: terminusCmd,
		site:        site,
		environment: environment,
	}
}

// ConnectionInfo fetches fresh connection details. Nothing is cached.
func (r *Relay) ConnectionInfo(ctx context.Context) (*ConnectionInfo, error) {
	command := fmt.Sprintf("%s connection:info %s.%s --format=json", r.terminusCmd, r.site, r.environment)
	logging.Debug("Relay", "Fetching connection info for %s.%s", r.site, r.environment)

	res, err := r.runner.Run(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("terminus connection:info: %w", err)
	}
	if !res.Success() {
		return nil, &RemoteError{Stage: "connection:info", Result: res}
	}

	var info ConnectionInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &info); err != nil {
		return nil, &drush.ParseError{Command: command, Output: res.Stdout, Err: err}
	}
	if strings.TrimSpace(info.SFTPCommand) == "" {
		return nil, &drush.ParseError{Command: command, Output: res.Stdout, Err: fmt.Errorf("sftp_command missing")}
	}
	return &info, nil
}

// Execute runs the fully composed command (including its "drush" alias) on
// the remote environment. A non-zero ssh exit becomes a *RemoteError that
// still carries the Result.
func (r *Relay) Execute(ctx context.Context, command string) (*Result, error) {
	info, err := r.ConnectionInfo(ctx)
	if err != nil {
		return nil, err
	}

	sshCmd, err := BuildSSHCommand(info.SFTPCommand, command)
	if err != nil {
		return nil, err
	}

	res, err := r.runner.Run(ctx, sshCmd)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, &RemoteError{Stage: "ssh", Result: res}
	}
	return res, nil
}

// BuildSSHCommand rewrites an SFTP connection string such as
//
//	sftp -o Port=2222 dev.0123@appserver.dev.0123.drush.in
//
// into an ssh invocation that runs remote on that host.
func BuildSSHCommand(sftpCommand, remote string) (string, error) {
	tokens, err := shlex.Split(sftpCommand, true)
	if err != nil {
		return "", &drush.ParseError{Command: "sftp_command", Output: sftpCommand, Err: err}
	}
	if len(tokens) == 0 || tokens[0] != "sftp" {
		return "", &drush.ParseError{Command: "sftp_command", Output: sftpCommand, Err: fmt.Errorf("not an sftp command")}
	}

	port := defaultPantheonSSHPort
	var dest string
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "-o" && i+1 < len(tokens):
			i++
			if p, ok := strings.CutPrefix(tokens[i], "Port="); ok {
				port = p
			}
		case strings.HasPrefix(tok, "-oPort="):
			port = strings.TrimPrefix(tok, "-oPort=")
		case tok == "-P" && i+1 < len(tokens):
			i++
			port = tokens[i]
		case strings.HasPrefix(tok, "-"):
			// Other sftp flags have no ssh meaning here.
		default:
			dest = tok
		}
	}
	if dest == "" {
		return "", &drush.ParseError{Command: "sftp_command", Output: sftpCommand, Err: fmt.Errorf("no destination host")}
	}

	return fmt.Sprintf("ssh -T %s -p %s -o 'StrictHostKeyChecking=no' -o 'AddressFamily inet' %s",
		dest, port, drush.Quote(remote)), nil
}
