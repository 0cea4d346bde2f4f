// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one document through requirement check,
// classification, conversion, and publishing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/doc2pages/internal/command"
	"github.com/pdiddy/doc2pages/internal/convert"
	"github.com/pdiddy/doc2pages/internal/credentials"
	"github.com/pdiddy/doc2pages/pkg/types"
)

// ScannedDocumentError reports a PDF rejected by the classifier. Nothing is
// converted or published.
type ScannedDocumentError struct {
	Path   string
	Result types.ClassificationResult
}

func (e *ScannedDocumentError) Error() string {
	return fmt.Sprintf("PDF is scanned, cannot be converted: %s (text page rate %.2f < %.2f)",
		e.Path, e.Result.Rate, e.Result.MinRate)
}

// Classifier decides whether a PDF is scanned.
type Classifier interface {
	Classify(path string, threshold int, minRate float64) (types.ClassificationResult, error)
}

// Publisher pushes a site directory and returns its URL.
type Publisher interface {
	Publish(ctx context.Context, cfg types.Config, creds credentials.Credentials, siteDir string) (string, error)
}

// CredentialSource supplies the password for a GitHub user.
type CredentialSource interface {
	Resolve(username string) (credentials.Credentials, error)
}

// HistoryStore records the outcome of a run.
type HistoryStore interface {
	Record(ctx context.Context, rec types.PublishRecord) (int64, error)
	Close() error
}

// Pipeline wires the stages together. OpenHistory may be nil, which
// disables history like an empty Config.HistoryPath does.
type Pipeline struct {
	Runner      command.Runner
	Credentials CredentialSource
	Classifier  Classifier
	Converter   convert.Converter
	Publisher   Publisher
	OpenHistory func(path string) (HistoryStore, error)
	Logger      *zap.Logger

	// Out receives the progress lines shown to the user.
	Out io.Writer
}

// Run publishes cfg.DocPath to cfg.Repo and returns the Pages URL.
func (p *Pipeline) Run(ctx context.Context, cfg types.Config) (url string, err error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fmt.Fprintln(p.Out, "[ Checking for requirements ... ]")
	if err := command.CheckRequirements(p.Runner, command.Requirements...); err != nil {
		return "", err
	}

	rec := types.PublishRecord{
		Repo:    cfg.Repo,
		DocPath: cfg.DocPath,
		Public:  cfg.Publish.Public,
		Forced:  cfg.Classifier.Force,
		Started: time.Now(),
	}
	if store := p.openHistory(cfg.HistoryPath, logger); store != nil {
		defer func() {
			p.record(ctx, logger, store, rec, url, err)
			if cerr := store.Close(); cerr != nil {
				logger.Warn("closing publish history", zap.Error(cerr))
			}
		}()
	}

	creds, err := p.Credentials.Resolve(cfg.Repo.Owner)
	if err != nil {
		return "", err
	}

	if cfg.IsPDF() {
		result, err := p.gate(cfg)
		if err != nil {
			return "", err
		}
		rec.Classification = result
	}

	siteDir := cfg.OutputDir()
	if _, err := os.Stat(siteDir); err == nil {
		return "", fmt.Errorf("output directory %s already exists", siteDir)
	}
	if !cfg.KeepOutput {
		defer func() {
			if rmErr := os.RemoveAll(siteDir); rmErr != nil {
				logger.Warn("removing site directory", zap.String("dir", siteDir), zap.Error(rmErr))
			}
		}()
	}

	if err := convert.ConvertDocument(ctx, p.Converter, cfg.DocPath, siteDir, p.Out); err != nil {
		return "", err
	}

	url, err = p.Publisher.Publish(ctx, cfg, creds, siteDir)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(p.Out, "Document is published at: %s\n", url)
	return url, nil
}

// gate classifies a PDF unless forced. The returned result is nil when
// classification was skipped.
func (p *Pipeline) gate(cfg types.Config) (*types.ClassificationResult, error) {
	if cfg.Classifier.Force {
		fmt.Fprintln(p.Out, "Force to convert PDF.")
		return nil, nil
	}

	result, err := p.Classifier.Classify(cfg.DocPath, cfg.Classifier.Threshold, cfg.Classifier.MinRate)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.Out, "Total pages: %d\nText pages: %d\nRate: %g\n",
		result.TotalPageCount, result.TextPageCount, result.Rate)

	if result.IsScanned {
		return &result, &ScannedDocumentError{Path: cfg.DocPath, Result: result}
	}
	return &result, nil
}

// openHistory returns nil when history is disabled or cannot be opened.
// A broken history never fails the run.
func (p *Pipeline) openHistory(path string, logger *zap.Logger) HistoryStore {
	if p.OpenHistory == nil || path == "" {
		return nil
	}
	store, err := p.OpenHistory(path)
	if err != nil {
		logger.Warn("publish history disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	return store
}

func (p *Pipeline) record(ctx context.Context, logger *zap.Logger, store HistoryStore, rec types.PublishRecord, url string, runErr error) {
	rec.Finished = time.Now()
	rec.URL = url

	var scanned *ScannedDocumentError
	switch {
	case runErr == nil:
		rec.Status = types.PublishDone
	case errors.As(runErr, &scanned):
		rec.Status = types.PublishRejected
		rec.Classification = &scanned.Result
		rec.Error = runErr.Error()
	default:
		rec.Status = types.PublishFailed
		rec.Error = runErr.Error()
	}

	// History must outlive a cancelled run.
	if _, err := store.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("recording publish history", zap.Error(err))
	}
}
