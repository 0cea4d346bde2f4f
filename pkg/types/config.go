// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the doc2pages stages.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Defaults for Config fields left unset by flags, config file, or environment.
const (
	DefaultThreshold     = 100
	DefaultMinRate       = 0.6
	DefaultAskpassPath   = "/tmp/askpass"
	DefaultBranch        = "gh-pages"
	DefaultCommitMessage = "Initial commit"
)

// ClassifierConfig holds the scanned-PDF heuristic parameters.
type ClassifierConfig struct {
	// Threshold is the number of characters a page must exceed to count
	// as a text page (default 100).
	Threshold int `json:"threshold" yaml:"threshold"`

	// MinRate is the minimum fraction of text pages; a lower rate marks
	// the document as scanned (default 0.6).
	MinRate float64 `json:"min_rate" yaml:"min_rate"`

	// Force skips classification and converts unconditionally.
	Force bool `json:"force" yaml:"force"`
}

// Validate checks the heuristic parameters are usable.
func (c ClassifierConfig) Validate() error {
	if c.Threshold < 0 {
		return &InvalidArgumentError{Arg: "pdf-threshold", Reason: fmt.Sprintf("must not be negative, got %d", c.Threshold)}
	}
	if c.MinRate < 0 || c.MinRate > 1 {
		return &InvalidArgumentError{Arg: "pdf-rate", Reason: fmt.Sprintf("must be within [0, 1], got %g", c.MinRate)}
	}
	return nil
}

// PublishConfig holds settings for the git/hub publishing stage.
type PublishConfig struct {
	// Public creates a public repository instead of a private one.
	Public bool `json:"public" yaml:"public"`

	// AskpassPath is where the credential-helper script is written.
	AskpassPath string `json:"askpass_path" yaml:"askpass_path"`

	// HubConfigPath is hub's token cache. It is removed after publishing
	// only when hub wrote it during this run.
	HubConfigPath string `json:"hub_config_path" yaml:"hub_config_path"`

	// Branch is the Pages branch to create and push.
	Branch string `json:"branch" yaml:"branch"`

	// CommitMessage is the message of the single commit.
	CommitMessage string `json:"commit_message" yaml:"commit_message"`
}

// Config is the immutable run configuration, built once from CLI input
// and passed by value to every stage.
type Config struct {
	// DocPath is the document to convert.
	DocPath string `json:"doc_path" yaml:"doc_path"`

	// Repo is the target GitHub repository.
	Repo RepoSpec `json:"repo" yaml:"repo"`

	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Publish    PublishConfig    `json:"publish" yaml:"publish"`

	// WorkDir is where the converted site directory is created.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// KeepOutput leaves the converted site directory in place afterwards.
	KeepOutput bool `json:"keep_output" yaml:"keep_output"`

	// HistoryPath is the SQLite publish history; empty disables history.
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"`
}

// OutputDir returns the directory the converted site is extracted into.
// It is named after the repository.
func (c Config) OutputDir() string {
	return filepath.Join(c.WorkDir, c.Repo.Name)
}

// IsPDF reports whether the document should go through classification.
func (c Config) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(c.DocPath), ".pdf")
}

// WithDefaults returns a copy of c with zero-valued optional fields filled.
func (c Config) WithDefaults() Config {
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.Publish.AskpassPath == "" {
		c.Publish.AskpassPath = DefaultAskpassPath
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = DefaultBranch
	}
	if c.Publish.CommitMessage == "" {
		c.Publish.CommitMessage = DefaultCommitMessage
	}
	return c
}

// Validate checks the configuration before any side effect happens.
func (c Config) Validate() error {
	if c.DocPath == "" {
		return &InvalidArgumentError{Arg: "doc_path", Reason: "must not be empty"}
	}
	if c.Repo.Owner == "" || c.Repo.Name == "" {
		return &InvalidArgumentError{Arg: "repo", Reason: "owner and name are required"}
	}
	return c.Classifier.Validate()
}
