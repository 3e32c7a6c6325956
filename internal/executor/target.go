package executor

import (
	"fmt"

	"atkctl/internal/config"
)

// TargetKind selects how a composed command reaches Drush.
type TargetKind int

const (
	// TargetLocal runs the command through the local shell.
	TargetLocal TargetKind = iota
	// TargetRemote relays the command to a Pantheon environment over SSH.
	TargetRemote
)

// Target is the execution target derived once from configuration. Site and
// Environment are only meaningful for TargetRemote.
type Target struct {
	Kind        TargetKind
	Site        string
	Environment string
}

// LocalTarget returns the local execution target.
func LocalTarget() Target {
	return Target{Kind: TargetLocal}
}

// RemoteTarget returns a Pantheon target for site.environment.
func RemoteTarget(site, environment string) Target {
	return Target{Kind: TargetRemote, Site: site, Environment: environment}
}

// TargetFromConfig derives the target from the pantheon section.
func TargetFromConfig(cfg config.AtkConfig) Target {
	if cfg.IsRemote() {
		return RemoteTarget(cfg.Pantheon.Site, cfg.Pantheon.Environment)
	}
	return LocalTarget()
}

// IsRemote reports whether t is a Pantheon target.
func (t Target) IsRemote() bool {
	return t.Kind == TargetRemote
}

func (t Target) String() string {
	if t.IsRemote() {
		return fmt.Sprintf("pantheon:%s.%s", t.Site, t.Environment)
	}
	return "local"
}
