package drush

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCommand is returned when a Spec has no base command.
	ErrEmptyCommand = errors.New("drush command must not be empty")
	// ErrNotList is returned when args or options are not a list of strings.
	ErrNotList = errors.New("drush args and options must be lists of strings")
)

// Spec describes one Drush invocation. Args and Options are emitted verbatim
// and in order; Command may itself carry fixed arguments such as
// "user:cancel -y dummy".
type Spec struct {
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// New is shorthand for a Spec without args or options.
func New(command string) Spec {
	return Spec{Command: command}
}

// WithArgs returns a copy of s with args appended.
func (s Spec) WithArgs(args ...string) Spec {
	s.Args = append(append([]string(nil), s.Args...), args...)
	return s
}

// WithOptions returns a copy of s with options appended.
func (s Spec) WithOptions(options ...string) Spec {
	s.Options = append(append([]string(nil), s.Options...), options...)
	return s
}

// Compose renders "<alias> <command> <args...> <options...>" separated by
// single spaces. Nothing is quoted or reordered; callers quote values that
// contain shell metacharacters (see Quote).
func Compose(alias string, s Spec) (string, error) {
	command := strings.TrimSpace(s.Command)
	if command == "" {
		return "", ErrEmptyCommand
	}

	tokens := make([]string, 0, 2+len(s.Args)+len(s.Options))
	if a := strings.TrimSpace(alias); a != "" {
		tokens = append(tokens, a)
	}
	tokens = append(tokens, command)
	tokens = appendNonEmpty(tokens, s.Args)
	tokens = appendNonEmpty(tokens, s.Options)

	return strings.Join(tokens, " "), nil
}

func appendNonEmpty(dst, src []string) []string {
	for _, v := range src {
		if v = strings.TrimSpace(v); v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

// SpecFromAny builds a Spec from loosely typed input such as decoded YAML or
// MCP tool arguments. nil args or options mean "none"; anything else must be a
// list whose elements are strings or numbers.
func SpecFromAny(command string, args, options any) (Spec, error) {
	a, err := StringList("args", args)
	if err != nil {
		return Spec{}, err
	}
	o, err := StringList("options", options)
	if err != nil {
		return Spec{}, err
	}
	if strings.TrimSpace(command) == "" {
		return Spec{}, ErrEmptyCommand
	}
	return Spec{Command: command, Args: a, Options: o}, nil
}

// StringList converts a loosely typed list the same way SpecFromAny does.
// field names the value in errors.
func StringList(field string, v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			switch item.(type) {
			case string, int, int64, float64, bool:
				out = append(out, fmt.Sprint(item))
			default:
				return nil, fmt.Errorf("%w: %s[%d] is %T", ErrNotList, field, i, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrNotList, field, v)
	}
}

// Quote wraps s in single quotes for a POSIX shell. Embedded single quotes
// are closed, escaped and reopened.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
