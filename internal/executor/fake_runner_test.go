package executor

import (
	"context"
	"strings"
	"sync"
)

// scriptedResponse is returned for commands starting with prefix.
type scriptedResponse struct {
	prefix string
	result *Result
	err    error
}

// fakeRunner records every command and answers from a script.
type fakeRunner struct {
	mu        sync.Mutex
	script    []scriptedResponse
	commands  []string
	otherwise *Result
}

func (f *fakeRunner) on(prefix string, result *Result, err error) *fakeRunner {
	f.script = append(f.script, scriptedResponse{prefix: prefix, result: result, err: err})
	return f
}

func (f *fakeRunner) Run(ctx context.Context, command string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)

	for _, s := range f.script {
		if strings.HasPrefix(command, s.prefix) {
			if s.result != nil {
				r := *s.result
				r.Command = command
				return &r, s.err
			}
			return nil, s.err
		}
	}
	if f.otherwise != nil {
		r := *f.otherwise
		r.Command = command
		return &r, nil
	}
	return &Result{Command: command}, nil
}

func (f *fakeRunner) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}
