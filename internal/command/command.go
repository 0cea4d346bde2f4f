// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package command runs the external tools doc2pages delegates to and checks
// that they are installed.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external tool invocation.
type Cmd struct {
	Name string
	Args []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the parent environment
	// for this process only.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and errors.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner abstracts process execution so stages can be tested without the
// real tools.
type Runner interface {
	// LookPath resolves an executable on PATH.
	LookPath(file string) (string, error)

	// Run executes c in the foreground and waits for it. A non-zero exit
	// is reported as *SubprocessFailureError.
	Run(ctx context.Context, c Cmd) error
}

// SubprocessFailureError reports an external tool that could not start or
// exited non-zero. Every such failure is fatal to the run.
type SubprocessFailureError struct {
	Name     string
	Args     []string
	ExitCode int // -1 when the process never started or was killed
	Err      error
}

func (e *SubprocessFailureError) Error() string {
	c := Cmd{Name: e.Name, Args: e.Args}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", c, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", c, e.Err)
}

func (e *SubprocessFailureError) Unwrap() error { return e.Err }

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct{}

// NewRunner returns the os/exec backed Runner.
func NewRunner() *OSRunner {
	return &OSRunner{}
}

func (o *OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *OSRunner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &SubprocessFailureError{Name: c.Name, Args: c.Args, ExitCode: code, Err: err}
	}
	return nil
}
