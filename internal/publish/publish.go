// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish commits a converted site and pushes it to a new GitHub
// repository's Pages branch using git and hub.
//
// The work is an ordered list of named steps. Local steps build the
// repository; remote steps run inside an askpass session so hub and git can
// authenticate without a terminal.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/doc2pages/internal/askpass"
	"github.com/pdiddy/doc2pages/internal/command"
	"github.com/pdiddy/doc2pages/internal/credentials"
	"github.com/pdiddy/doc2pages/pkg/types"
)

// Step is one named unit of publishing work with its own failure boundary.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports which step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("publish step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// RunSteps executes steps in order and stops at the first failure.
func RunSteps(ctx context.Context, steps []Step, logger *zap.Logger) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
		logger.Debug("publish step", zap.String("step", s.Name))
		if err := s.Run(ctx); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
	}
	return nil
}

// Publisher drives git and hub through a command.Runner.
type Publisher struct {
	runner command.Runner
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// New creates a Publisher. Tool output is streamed to stdout and stderr.
func New(runner command.Runner, logger *zap.Logger, stdout, stderr io.Writer) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{runner: runner, logger: logger, stdout: stdout, stderr: stderr, now: time.Now}
}

// step wraps one tool invocation in dir as a named Step.
func (p *Publisher) step(name, dir string, env []string, tool string, args ...string) Step {
	c := command.Cmd{Name: tool, Args: args, Dir: dir, Env: env, Stdout: p.stdout, Stderr: p.stderr}
	return Step{Name: name, Run: func(ctx context.Context) error { return p.runner.Run(ctx, c) }}
}

// LocalSteps initialize siteDir as a repository holding one commit on the
// Pages branch.
func (p *Publisher) LocalSteps(cfg types.Config, siteDir string) []Step {
	return []Step{
		p.step("init", siteDir, nil, command.ToolGit, "init"),
		p.step("config-name", siteDir, nil, command.ToolGit, "config", "user.name", cfg.Repo.Owner),
		p.step("config-email", siteDir, nil, command.ToolGit, "config", "user.email", "<>"),
		p.step("checkout", siteDir, nil, command.ToolGit, "checkout", "-b", cfg.Publish.Branch),
		p.step("add", siteDir, nil, command.ToolGit, "add", "-A"),
		p.step("commit", siteDir, nil, command.ToolGit, "commit", "-m", cfg.Publish.CommitMessage),
	}
}

// RemoteSteps create the GitHub repository and push the Pages branch. env
// carries the askpass session variables.
func (p *Publisher) RemoteSteps(cfg types.Config, siteDir string, env []string) []Step {
	create := []string{"create"}
	if !cfg.Publish.Public {
		create = append(create, "-p")
	}
	return []Step{
		p.step("create", siteDir, env, command.ToolHub, create...),
		p.step("push", siteDir, env, command.ToolGit, "push", "origin", cfg.Publish.Branch),
	}
}

// Publish commits siteDir and pushes it to cfg.Repo, returning the Pages
// URL. The askpass script is removed and hub's token cache is cleaned up
// whether or not the remote steps succeed.
func (p *Publisher) Publish(ctx context.Context, cfg types.Config, creds credentials.Credentials, siteDir string) (string, error) {
	start := p.now()

	if err := RunSteps(ctx, p.LocalSteps(cfg, siteDir), p.logger); err != nil {
		return "", err
	}

	remoteErr := askpass.With(cfg.Publish.AskpassPath, creds, func(env []string) error {
		return RunSteps(ctx, p.RemoteSteps(cfg, siteDir, env), p.logger)
	})
	cacheErr := p.cleanHubCache(cfg.Publish.HubConfigPath, start)
	if err := errors.Join(remoteErr, cacheErr); err != nil {
		return "", err
	}

	return cfg.Repo.PagesURL(), nil
}

// cleanHubCache removes hub's token cache only when it was modified after
// start, so a cache that predates this run is left alone.
func (p *Publisher) cleanHubCache(path string, start time.Time) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking hub config %s: %w", path, err)
	}
	if !info.Mode().IsRegular() || !info.ModTime().After(start) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing hub config %s: %w", path, err)
	}
	p.logger.Debug("removed hub token cache", zap.String("path", path))
	return nil
}
