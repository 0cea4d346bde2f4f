// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a document into a static HTML site directory by
// delegating to external converters.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/doc2pages/internal/command"
)

const (
	archiveExt = ".htmlz"

	// noJekyllFile stops GitHub Pages from running Jekyll, which would drop
	// files and directories that begin with an underscore.
	noJekyllFile = ".nojekyll"
)

// Converter transforms a document into an HTML site rooted at outputDir.
// Different tools implement this interface.
type Converter interface {
	// Convert reads the document at input and creates outputDir holding
	// the site.
	Convert(ctx context.Context, input, outputDir string) error
}

// EbookConverter converts with calibre's ebook-convert into an HTMLZ
// archive and extracts it with unar.
type EbookConverter struct {
	runner command.Runner
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewEbookConverter creates a converter that runs the tools through runner.
// Tool output is streamed to stdout and stderr.
func NewEbookConverter(runner command.Runner, logger *zap.Logger, stdout, stderr io.Writer) *EbookConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EbookConverter{runner: runner, logger: logger, stdout: stdout, stderr: stderr}
}

// Convert runs ebook-convert to produce <outputDir>.htmlz, extracts it into
// outputDir, and removes the archive whether or not extraction succeeds.
func (e *EbookConverter) Convert(ctx context.Context, input, outputDir string) (err error) {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("reading document %s: %w", input, err)
	}

	archive := outputDir + archiveExt
	defer func() {
		if rmErr := os.Remove(archive); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.logger.Warn("removing archive", zap.String("archive", archive), zap.Error(rmErr))
		}
	}()

	steps := []command.Cmd{
		{Name: command.ToolEbookConvert, Args: []string{input, archive}},
		// -d always creates outputDir, even for single-entry archives.
		{Name: command.ToolUnar, Args: []string{"-f", "-d", "-o", filepath.Dir(outputDir), archive}},
	}
	for _, c := range steps {
		c.Stdout, c.Stderr = e.stdout, e.stderr
		e.logger.Debug("running converter", zap.Stringer("cmd", c))
		if err := e.runner.Run(ctx, c); err != nil {
			return fmt.Errorf("converting %s: %w", input, err)
		}
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		return fmt.Errorf("converter produced no site directory %s: %w", outputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("converter output %s is not a directory", outputDir)
	}

	if err := os.WriteFile(filepath.Join(outputDir, noJekyllFile), nil, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", noJekyllFile, err)
	}
	return nil
}

// ConvertDocument converts input into outputDir and reports progress to w.
// The caller owns outputDir and decides whether it may already exist.
func ConvertDocument(ctx context.Context, c Converter, input, outputDir string, w io.Writer) error {
	fmt.Fprintf(w, "converting: %s -> %s\n", input, outputDir)
	if err := c.Convert(ctx, input, outputDir); err != nil {
		fmt.Fprintf(w, "failed:     %s (%v)\n", input, err)
		return err
	}
	fmt.Fprintf(w, "converted:  %s\n", input)
	return nil
}
