// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package askpass generates the GIT_ASKPASS credential helper and scopes it
// to an authenticated session around hub and git.
//
// git and hub run the helper with the prompt text as the first argument.
// The helper prints the username for prompts containing "ername", the
// password for prompts containing "assword", and nothing otherwise.
package askpass

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/pdiddy/doc2pages/internal/credentials"
)

const (
	usernameMarker = "ername"
	passwordMarker = "assword"
)

const scriptTemplate = `#!/bin/sh
case "$1" in
  *%s*)
    printf '%%s\n' %s
    ;;
  *%s*)
    printf '%%s\n' %s
    ;;
esac
`

// Render returns the helper script for creds. Values are single-quoted so
// the shell never expands them.
func Render(creds credentials.Credentials) string {
	return fmt.Sprintf(scriptTemplate,
		usernameMarker, shellQuote(creds.Username),
		passwordMarker, shellQuote(creds.Password))
}

// Respond returns what the helper prints for prompt, without the trailing
// newline. The username check wins when a prompt contains both markers.
func Respond(prompt string, creds credentials.Credentials) string {
	switch {
	case strings.Contains(prompt, usernameMarker):
		return creds.Username
	case strings.Contains(prompt, passwordMarker):
		return creds.Password
	default:
		return ""
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Session owns a written helper script and the environment that points the
// hosting CLI at it. Close removes the script.
type Session struct {
	path   string
	creds  credentials.Credentials
	closed bool
}

// Open writes the helper script to path with owner-only execute
// permission. Whatever already sits at path is unlinked first and the
// script is created exclusively, so an existing file or symlink there is
// never written through.
func Open(path string, creds credentials.Credentials) (*Session, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("removing stale askpass script %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|syscall.O_NOFOLLOW, 0o700)
	if err != nil {
		return nil, fmt.Errorf("creating askpass script %s: %w", path, err)
	}
	s := &Session{path: path, creds: creds}

	// The umask may have narrowed the mode OpenFile applied.
	chmodErr := f.Chmod(0o700)
	_, writeErr := f.WriteString(Render(creds))
	closeErr := f.Close()
	if err := errors.Join(chmodErr, writeErr, closeErr); err != nil {
		return nil, errors.Join(fmt.Errorf("writing askpass script %s: %w", path, err), s.Close())
	}
	return s, nil
}

// Path returns the script location.
func (s *Session) Path() string { return s.path }

// Env returns the variables the hosting CLI needs, scoped to the child
// processes that receive them.
func (s *Session) Env() []string {
	return []string{
		"GITHUB_USER=" + s.creds.Username,
		"GITHUB_PASSWORD=" + s.creds.Password,
		"HUB_PROTOCOL=https",
		"GIT_ASKPASS=" + s.path,
	}
}

// Close removes the script. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing askpass script %s: %w", s.path, err)
	}
	return nil
}

// With opens a session, calls fn with its environment, and removes the
// script on every exit path, including a panic in fn.
func With(path string, creds credentials.Credentials, fn func(env []string) error) (err error) {
	s, err := Open(path, creds)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(s.Env())
}
