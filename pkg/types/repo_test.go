// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    RepoSpec
		wantErr bool
	}{
		{in: "alice/docs", want: RepoSpec{Owner: "alice", Name: "docs"}},
		{in: "Alice/My-Book", want: RepoSpec{Owner: "Alice", Name: "My-Book"}},
		{in: "alice", wantErr: true},
		{in: "/docs", wantErr: true},
		{in: "alice/", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRepoSpec(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var argErr *InvalidArgumentError
				require.True(t, errors.As(err, &argErr))
				assert.Equal(t, "repo", argErr.Arg)
				assert.Contains(t, err.Error(), tt.in)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestPagesURL(t *testing.T) {
	r := RepoSpec{Owner: "Alice", Name: "Docs"}
	assert.Equal(t, "https://alice.github.io/Docs/", r.PagesURL())
}

func TestConfigValidate(t *testing.T) {
	base := Config{
		DocPath: "book.pdf",
		Repo:    RepoSpec{Owner: "alice", Name: "docs"},
		Classifier: ClassifierConfig{
			Threshold: DefaultThreshold,
			MinRate:   DefaultMinRate,
		},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		arg    string
	}{
		{"empty doc path", func(c *Config) { c.DocPath = "" }, "doc_path"},
		{"missing repo", func(c *Config) { c.Repo = RepoSpec{} }, "repo"},
		{"negative threshold", func(c *Config) { c.Classifier.Threshold = -1 }, "pdf-threshold"},
		{"rate above one", func(c *Config) { c.Classifier.MinRate = 1.5 }, "pdf-rate"},
		{"negative rate", func(c *Config) { c.Classifier.MinRate = -0.1 }, "pdf-rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			var argErr *InvalidArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, tt.arg, argErr.Arg)
		})
	}
}

func TestConfigDerived(t *testing.T) {
	cfg := Config{DocPath: "/books/Guide.PDF", Repo: RepoSpec{Owner: "alice", Name: "guide"}}.WithDefaults()

	assert.True(t, cfg.IsPDF())
	assert.Equal(t, "guide", cfg.OutputDir())
	assert.Equal(t, DefaultAskpassPath, cfg.Publish.AskpassPath)
	assert.Equal(t, DefaultBranch, cfg.Publish.Branch)
	assert.Equal(t, DefaultCommitMessage, cfg.Publish.CommitMessage)

	epub := Config{DocPath: "book.epub"}
	assert.False(t, epub.IsPDF())
}
