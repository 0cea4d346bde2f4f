// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2pages CLI. The root command
// converts a document to HTML and publishes it as a GitHub Pages site.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/doc2pages/internal/command"
	"github.com/pdiddy/doc2pages/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from --verbose.
var logger = zap.NewNop()

// rootCmd converts and publishes a document.
var rootCmd = &cobra.Command{
	Use:   "doc2pages [flags] <doc_path> <owner>/<repo>",
	Short: "Convert a document to HTML and deploy it with GitHub Pages",
	Long: `doc2pages converts a document (PDF, EPUB, MOBI, ...) to HTML with calibre's
ebook-convert and publishes it to the gh-pages branch of a new GitHub
repository using git and hub.

doc_path is the path of a document, such as book.pdf or /path/to/book.epub.
<owner>/<repo> is the repository to create and deploy to.

PDF files are checked first: a PDF where too few pages carry extractable
text is treated as a scanned document and is not converted unless
--pdf-force is given.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	RunE: runPublish,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./doc2pages.yaml or ~/.config/doc2pages/config.yaml)")
	pf.Bool("verbose", false, "enable debug logging")
	pf.Int("pdf-threshold", types.DefaultThreshold, "Character number threshold. Only works for pdf file. When number of characters in a page is larger than threshold, then the page is thought as a text page.")
	pf.Float64("pdf-rate", types.DefaultMinRate, "Minimum rate of text pages over total pages. Only works for pdf file. If the actual rate is below this value, the pdf file is thought as a scanned document, which won't be converted.")
	bindFlags(pf, "verbose", "pdf-threshold", "pdf-rate")

	f := rootCmd.Flags()
	f.Bool("public", false, "Deploy to a public repository.")
	f.Bool("pdf-force", false, "Force to convert pdf despite whether it's scanned or not.")
	f.String("askpass-path", types.DefaultAskpassPath, "where the temporary credential helper script is written")
	f.String("hub-config", "", "hub token cache removed after publishing when hub created it (default ~/.config/hub)")
	f.String("work-dir", ".", "directory in which the converted site is created")
	f.String("branch", types.DefaultBranch, "branch GitHub Pages serves")
	f.String("commit-message", types.DefaultCommitMessage, "message of the published commit")
	f.Bool("keep-output", false, "keep the converted site directory after publishing")
	f.String("secrets-dir", ".secrets", "directory holding a github-password file")
	addHistoryFlags(f)
	bindFlags(f, "public", "pdf-force", "askpass-path", "hub-config", "work-dir",
		"branch", "commit-message", "keep-output", "secrets-dir")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2pages")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2pages"))
		}
	}

	viper.SetEnvPrefix("DOC2PAGES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableStacktrace = false
	}
	return cfg.Build()
}

// report prints err to w the way the user expects to see it and returns
// the process exit status.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var argErr *types.InvalidArgumentError
	var missErr *command.MissingRequirementError
	switch {
	case errors.As(err, &argErr) && argErr.Arg == "repo":
		fmt.Fprintf(w, "Invalid repo: %s\n", argErr.Reason)
	case errors.As(err, &missErr):
		fmt.Fprintln(w, missErr.Error())
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	os.Exit(report(os.Stderr, err))
}
