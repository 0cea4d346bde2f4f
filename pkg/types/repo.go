// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// InvalidArgumentError reports a malformed command-line argument. It is
// raised before any side effect.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Arg, e.Reason)
}

// RepoSpec identifies a GitHub repository as owner and name.
type RepoSpec struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// ParseRepoSpec splits "<owner>/<repo>". Exactly two non-empty components
// are required.
func ParseRepoSpec(s string) (RepoSpec, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoSpec{}, &InvalidArgumentError{Arg: "repo", Reason: s}
	}
	return RepoSpec{Owner: parts[0], Name: parts[1]}, nil
}

// String returns "<owner>/<repo>".
func (r RepoSpec) String() string {
	return r.Owner + "/" + r.Name
}

// PagesURL returns the GitHub Pages address the repository is served at.
func (r RepoSpec) PagesURL() string {
	return fmt.Sprintf("https://%s.github.io/%s/", strings.ToLower(r.Owner), r.Name)
}
