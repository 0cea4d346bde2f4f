// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package commandtest provides a recording command.Runner for tests.
package commandtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pdiddy/doc2pages/internal/command"
)

// Recorder implements command.Runner. It records every Run call and
// answers LookPath from Installed.
type Recorder struct {
	// Installed lists the binaries LookPath resolves.
	Installed map[string]bool

	// Fail maps a command line prefix ("git push") to the error Run returns.
	Fail map[string]error

	// OnRun, when set, is called for each command before Fail is consulted.
	// A non-nil return is used as the result.
	OnRun func(c command.Cmd) error

	mu    sync.Mutex
	calls []command.Cmd
}

func (r *Recorder) LookPath(file string) (string, error) {
	if r.Installed[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (r *Recorder) Run(ctx context.Context, c command.Cmd) error {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if r.OnRun != nil {
		if err := r.OnRun(c); err != nil {
			return err
		}
	}
	line := c.String()
	for prefix, err := range r.Fail {
		if strings.HasPrefix(line, prefix) {
			return &command.SubprocessFailureError{Name: c.Name, Args: c.Args, ExitCode: 1, Err: err}
		}
	}
	return nil
}

// Calls returns the recorded commands in call order.
func (r *Recorder) Calls() []command.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]command.Cmd(nil), r.calls...)
}

// Lines returns the recorded commands rendered as command lines.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}
