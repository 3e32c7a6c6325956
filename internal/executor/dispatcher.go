package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"atkctl/internal/config"
	"atkctl/internal/drush"
	"atkctl/pkg/logging"
)

// remoteDrushAlias is the Drush binary on Pantheon application servers.
const remoteDrushAlias = "drush"

// Dispatcher routes composed Drush commands to the local shell or the remote
// relay according to the target fixed at construction.
type Dispatcher struct {
	target Target
	alias  string
	runner Runner
	relay  *Relay
}

// NewDispatcher builds a dispatcher for cfg. runner executes local commands
// and, for a remote target, the terminus and ssh calls.
func NewDispatcher(cfg config.AtkConfig, runner Runner) *Dispatcher {
	d := &Dispatcher{
		target: TargetFromConfig(cfg),
		runner: runner,
	}
	if d.target.IsRemote() {
		d.alias = remoteDrushAlias
		d.relay = NewRelay(runner, cfg.TerminusCmd, cfg.Pantheon.Site, cfg.Pantheon.Environment)
	} else {
		d.alias = strings.TrimSpace(cfg.DrushCmd)
	}
	return d
}

// Target returns the execution target.
func (d *Dispatcher) Target() Target {
	return d.target
}

// Alias returns the Drush prefix used for composition.
func (d *Dispatcher) Alias() string {
	return d.alias
}

// Compose renders spec with the dispatcher's alias.
func (d *Dispatcher) Compose(spec drush.Spec) (string, error) {
	return drush.Compose(d.alias, spec)
}

// Execute composes spec and runs it on the target. A local non-zero exit is
// returned as a Result without error.
func (d *Dispatcher) Execute(ctx context.Context, spec drush.Spec) (*Result, error) {
	command, err := d.Compose(spec)
	if err != nil {
		return nil, err
	}

	logging.Debug("Dispatcher", "Executing on %s: %s", d.target, Redact(command))

	var res *Result
	if d.target.IsRemote() {
		res, err = d.relay.Execute(ctx, command)
	} else {
		res, err = d.runner.Run(ctx, command)
	}
	if err != nil {
		logging.Error("Dispatcher", err, "Drush command failed on %s", d.target)
		return res, err
	}
	if !res.Success() {
		logging.Warn("Dispatcher", "Drush exited with status %d: %s", res.ExitCode, firstLine(res.Stderr))
	}
	return res, nil
}

// Output runs spec and returns its stdout. A non-zero exit is an *ExitError.
func (d *Dispatcher) Output(ctx context.Context, spec drush.Spec) (string, error) {
	res, err := d.Execute(ctx, spec)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return res.Stdout, &ExitError{Result: res}
	}
	return res.Stdout, nil
}

var secretOption = regexp.MustCompile(`(--password=)('[^']*'|"[^"]*"|\S+)`)

// Redact masks password options for logging.
func Redact(command string) string {
	return secretOption.ReplaceAllString(command, "${1}***")
}

// String describes the dispatcher for log lines.
func (d *Dispatcher) String() string {
	return fmt.Sprintf("%s via %q", d.target, d.alias)
}
