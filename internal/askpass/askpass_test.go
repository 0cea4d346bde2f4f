// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package askpass

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2pages/internal/credentials"
)

var testCreds = credentials.Credentials{Username: "alice", Password: "hunter2"}

func TestRespond(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"Username for 'https://github.com':", "alice"},
		{"Password for 'https://alice@github.com':", "hunter2"},
		{"username:", "alice"},
		{"password:", "hunter2"},
		{"Enter passphrase for key:", ""},
		{"", ""},
		{"USERNAME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, Respond(tt.prompt, testCreds))
		})
	}
}

// runScript executes the rendered helper with prompt as $1.
func runScript(t *testing.T, path, prompt string) string {
	t.Helper()
	out, err := exec.Command(path, prompt).Output()
	require.NoError(t, err)
	return string(out)
}

func TestScriptMatchesRespond(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	creds := []credentials.Credentials{
		testCreds,
		{Username: "bob", Password: `it's "$HOME" and \n $(id)`},
	}
	prompts := []string{
		"Username for 'https://github.com':",
		"Password for 'https://github.com':",
		"Something else",
	}
	for _, c := range creds {
		path := filepath.Join(t.TempDir(), "askpass")
		s, err := Open(path, c)
		require.NoError(t, err)

		for _, p := range prompts {
			want := Respond(p, c)
			got := runScript(t, path, p)
			if want == "" {
				assert.Empty(t, got, p)
			} else {
				assert.Equal(t, want+"\n", got, p)
			}
		}
		require.NoError(t, s.Close())
	}
}

func TestOpenWritesExecutableScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askpass")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	s, err := Open(path, testCreds)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#!/bin/sh\n"))
	assert.Equal(t, path, s.Path())
}

func TestOpenDoesNotFollowSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "planted")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))
	path := filepath.Join(dir, "askpass")
	require.NoError(t, os.Symlink(target, path))

	err := With(path, testCreds, func(env []string) error {
		info, err := os.Lstat(path)
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular(), "script replaces the symlink")
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.NotContains(t, string(data), testCreds.Password)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	_, err = os.Lstat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSessionEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askpass")
	s, err := Open(path, testCreds)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{
		"GITHUB_USER=alice",
		"GITHUB_PASSWORD=hunter2",
		"HUB_PROTOCOL=https",
		"GIT_ASKPASS=" + path,
	}, s.Env())
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askpass")
	s, err := Open(path, testCreds)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoFileExists(t, path)
	require.NoError(t, s.Close())
}

func TestWithRemovesScript(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "askpass")
		var seen []string
		err := With(path, testCreds, func(env []string) error {
			assert.FileExists(t, path)
			seen = env
			return nil
		})
		require.NoError(t, err)
		assert.Contains(t, seen, "GIT_ASKPASS="+path)
		assert.NoFileExists(t, path)
	})

	t.Run("error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "askpass")
		wantErr := errors.New("hub create failed")
		err := With(path, testCreds, func(env []string) error { return wantErr })
		assert.ErrorIs(t, err, wantErr)
		assert.NoFileExists(t, path)
	})

	t.Run("panic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "askpass")
		assert.Panics(t, func() {
			_ = With(path, testCreds, func(env []string) error { panic("boom") })
		})
		assert.NoFileExists(t, path)
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing-dir", "askpass")
		called := false
		err := With(path, testCreds, func(env []string) error { called = true; return nil })
		require.Error(t, err)
		assert.False(t, called)
	})
}
