// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/doc2pages/internal/command"
	"github.com/pdiddy/doc2pages/internal/command/commandtest"
	"github.com/pdiddy/doc2pages/internal/credentials"
	"github.com/pdiddy/doc2pages/pkg/types"
)

var testCreds = credentials.Credentials{Username: "Alice", Password: "hunter2"}

func testConfig(t *testing.T, public bool) types.Config {
	t.Helper()
	tmp := t.TempDir()
	return types.Config{
		DocPath: "book.pdf",
		Repo:    types.RepoSpec{Owner: "Alice", Name: "book"},
		WorkDir: tmp,
		Publish: types.PublishConfig{
			Public:        public,
			AskpassPath:   filepath.Join(tmp, "askpass"),
			HubConfigPath: filepath.Join(tmp, "hub"),
		},
	}.WithDefaults()
}

func TestRunSteps(t *testing.T) {
	var order []string
	mk := func(name string, err error) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			order = append(order, name)
			return err
		}}
	}
	boom := errors.New("boom")

	err := RunSteps(context.Background(), []Step{mk("a", nil), mk("b", boom), mk("c", nil)}, zaptest.NewLogger(t))

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr), "got %v", err)
	assert.Equal(t, "b", stepErr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRunStepsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := RunSteps(ctx, []Step{{Name: "init", Run: func(context.Context) error { ran = true; return nil }}}, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestPublish(t *testing.T) {
	tests := []struct {
		name       string
		public     bool
		wantCreate string
	}{
		{name: "private repository", wantCreate: "hub create -p"},
		{name: "public repository", public: true, wantCreate: "hub create"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.public)
			siteDir := cfg.OutputDir()

			var remoteEnv [][]string
			rec := &commandtest.Recorder{OnRun: func(c command.Cmd) error {
				if c.Env != nil {
					assert.FileExists(t, cfg.Publish.AskpassPath, "askpass must exist during %s", c)
					remoteEnv = append(remoteEnv, c.Env)
				}
				return nil
			}}
			p := New(rec, zaptest.NewLogger(t), nil, nil)

			url, err := p.Publish(context.Background(), cfg, testCreds, siteDir)
			require.NoError(t, err)
			assert.Equal(t, "https://alice.github.io/book/", url)

			assert.Equal(t, []string{
				"git init",
				"git config user.name Alice",
				"git config user.email <>",
				"git checkout -b gh-pages",
				"git add -A",
				"git commit -m Initial commit",
				tt.wantCreate,
				"git push origin gh-pages",
			}, rec.Lines())
			for _, c := range rec.Calls() {
				assert.Equal(t, siteDir, c.Dir)
			}

			require.Len(t, remoteEnv, 2)
			for _, env := range remoteEnv {
				assert.Contains(t, env, "GITHUB_USER=Alice")
				assert.Contains(t, env, "GITHUB_PASSWORD=hunter2")
				assert.Contains(t, env, "HUB_PROTOCOL=https")
				assert.Contains(t, env, "GIT_ASKPASS="+cfg.Publish.AskpassPath)
			}
			assert.NoFileExists(t, cfg.Publish.AskpassPath)
		})
	}
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name      string
		failOn    string
		wantStep  string
		wantCalls int
	}{
		{name: "commit fails before session", failOn: "git commit", wantStep: "commit", wantCalls: 6},
		{name: "hub create fails", failOn: "hub create", wantStep: "create", wantCalls: 7},
		{name: "push fails", failOn: "git push", wantStep: "push", wantCalls: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, false)
			rec := &commandtest.Recorder{Fail: map[string]error{tt.failOn: errors.New("exit status 128")}}
			p := New(rec, nil, nil, nil)

			url, err := p.Publish(context.Background(), cfg, testCreds, cfg.OutputDir())
			require.Error(t, err)
			assert.Empty(t, url)

			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr), "got %v", err)
			assert.Equal(t, tt.wantStep, stepErr.Step)
			var subErr *command.SubprocessFailureError
			assert.True(t, errors.As(err, &subErr))

			assert.Len(t, rec.Calls(), tt.wantCalls)
			assert.NoFileExists(t, cfg.Publish.AskpassPath)
		})
	}
}

func TestPublishHubCache(t *testing.T) {
	t.Run("cache written during run is removed", func(t *testing.T) {
		cfg := testConfig(t, false)
		rec := &commandtest.Recorder{OnRun: func(c command.Cmd) error {
			if c.Name == command.ToolHub {
				return os.WriteFile(cfg.Publish.HubConfigPath, []byte("oauth_token: x"), 0o600)
			}
			return nil
		}}
		p := New(rec, nil, nil, nil)
		p.now = func() time.Time { return time.Now().Add(-time.Minute) }

		_, err := p.Publish(context.Background(), cfg, testCreds, cfg.OutputDir())
		require.NoError(t, err)
		assert.NoFileExists(t, cfg.Publish.HubConfigPath)
	})

	t.Run("cache written before a failed push is still removed", func(t *testing.T) {
		cfg := testConfig(t, false)
		rec := &commandtest.Recorder{
			OnRun: func(c command.Cmd) error {
				if c.Name == command.ToolHub {
					return os.WriteFile(cfg.Publish.HubConfigPath, []byte("oauth_token: x"), 0o600)
				}
				return nil
			},
			Fail: map[string]error{"git push": errors.New("rejected")},
		}
		p := New(rec, nil, nil, nil)
		p.now = func() time.Time { return time.Now().Add(-time.Minute) }

		_, err := p.Publish(context.Background(), cfg, testCreds, cfg.OutputDir())
		require.Error(t, err)
		assert.NoFileExists(t, cfg.Publish.HubConfigPath)
	})

	t.Run("older cache is kept", func(t *testing.T) {
		cfg := testConfig(t, false)
		require.NoError(t, os.WriteFile(cfg.Publish.HubConfigPath, []byte("oauth_token: mine"), 0o600))
		old := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(cfg.Publish.HubConfigPath, old, old))

		p := New(&commandtest.Recorder{}, nil, nil, nil)
		_, err := p.Publish(context.Background(), cfg, testCreds, cfg.OutputDir())
		require.NoError(t, err)
		assert.FileExists(t, cfg.Publish.HubConfigPath)
	})

	t.Run("cache with mtime equal to start is kept", func(t *testing.T) {
		cfg := testConfig(t, false)
		require.NoError(t, os.WriteFile(cfg.Publish.HubConfigPath, []byte("x"), 0o600))
		info, err := os.Stat(cfg.Publish.HubConfigPath)
		require.NoError(t, err)

		p := New(&commandtest.Recorder{}, nil, nil, nil)
		require.NoError(t, p.cleanHubCache(cfg.Publish.HubConfigPath, info.ModTime()))
		assert.FileExists(t, cfg.Publish.HubConfigPath)
	})

	t.Run("missing cache is fine", func(t *testing.T) {
		p := New(&commandtest.Recorder{}, nil, nil, nil)
		assert.NoError(t, p.cleanHubCache(filepath.Join(t.TempDir(), "hub"), time.Now()))
		assert.NoError(t, p.cleanHubCache("", time.Now()))
	})
}
