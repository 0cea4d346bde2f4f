// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credentials resolves the GitHub username and password used to
// create and push the Pages repository.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pdiddy/doc2pages/internal/secrets"
)

// PasswordSecretKey is the secrets-directory file holding the password.
const PasswordSecretKey = "github-password"

// Prompt is printed before reading the password interactively.
const Prompt = "github password:"

// Credentials are the GitHub login handed to hub and git.
type Credentials struct {
	Username string
	Password string
}

// String hides the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:***", c.Username)
}

// PasswordReader reads a password from the user.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// Resolver finds a password from, in order: the secrets directory, an
// explicit value (environment or config file), and an interactive reader.
type Resolver struct {
	SecretsDir string
	Password   string
	Reader     PasswordReader
}

// Resolve returns the credentials for username.
func (r Resolver) Resolve(username string) (Credentials, error) {
	if r.SecretsDir != "" {
		v, ok, err := secrets.Lookup(r.SecretsDir, PasswordSecretKey)
		if err != nil {
			return Credentials{}, err
		}
		if ok {
			return Credentials{Username: username, Password: v}, nil
		}
	}
	if r.Password != "" {
		return Credentials{Username: username, Password: r.Password}, nil
	}
	if r.Reader == nil {
		return Credentials{}, errors.New("no password source configured")
	}
	pw, err := r.Reader.ReadPassword(Prompt)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading password: %w", err)
	}
	return Credentials{Username: username, Password: pw}, nil
}

// TerminalReader reads a masked password when in is a terminal and a plain
// line otherwise.
type TerminalReader struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalReader reads from stdin and prompts on stderr.
func NewTerminalReader() *TerminalReader {
	return &TerminalReader{In: os.Stdin, Out: os.Stderr}
}

func (t *TerminalReader) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(t.Out, prompt)
	defer fmt.Fprintln(t.Out)

	fd := int(t.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(t.In)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
