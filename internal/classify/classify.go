// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a PDF is a scanned document or a text
// document before it is handed to a converter.
//
// A page is a text page when its extracted plain text is strictly longer
// than a character threshold. The document is scanned when the fraction of
// text pages is strictly below a minimum rate.
package classify

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/doc2pages/pkg/types"
)

// UnreadableDocumentError reports a file that could not be opened or parsed
// as a PDF.
type UnreadableDocumentError struct {
	Path string
	Err  error
}

func (e *UnreadableDocumentError) Error() string {
	return fmt.Sprintf("unreadable PDF %s: %v", e.Path, e.Err)
}

func (e *UnreadableDocumentError) Unwrap() error { return e.Err }

// InvalidDocumentError reports a PDF that parses but cannot be classified,
// such as one with no pages.
type InvalidDocumentError struct {
	Path   string
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	if e.Path == "" {
		return "invalid PDF: " + e.Reason
	}
	return fmt.Sprintf("invalid PDF %s: %s", e.Path, e.Reason)
}

// PageSource yields the extracted plain-text length of every page of a
// document, in page order.
type PageSource interface {
	PageTextLengths(path string) ([]int, error)
}

// Evaluate applies the heuristic to a sequence of per-page text lengths.
// It returns *InvalidDocumentError when lengths is empty.
func Evaluate(lengths []int, threshold int, minRate float64) (types.ClassificationResult, error) {
	if len(lengths) == 0 {
		return types.ClassificationResult{}, &InvalidDocumentError{Reason: "document has no pages"}
	}

	textPages := 0
	for _, n := range lengths {
		if n > threshold {
			textPages++
		}
	}

	rate := float64(textPages) / float64(len(lengths))
	return types.ClassificationResult{
		TotalPageCount: len(lengths),
		TextPageCount:  textPages,
		Rate:           rate,
		IsScanned:      rate < minRate,
		Threshold:      threshold,
		MinRate:        minRate,
	}, nil
}

// Classifier reads a document through a PageSource and evaluates it.
type Classifier struct {
	source PageSource
	logger *zap.Logger
}

// New creates a Classifier. A nil logger disables logging.
func New(source PageSource, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{source: source, logger: logger}
}

// Classify reads every page of the PDF at path and evaluates it with the
// given threshold and minimum rate.
func (c *Classifier) Classify(path string, threshold int, minRate float64) (types.ClassificationResult, error) {
	lengths, err := c.source.PageTextLengths(path)
	if err != nil {
		return types.ClassificationResult{}, err
	}

	result, err := Evaluate(lengths, threshold, minRate)
	if err != nil {
		var invalid *InvalidDocumentError
		if errors.As(err, &invalid) {
			invalid.Path = path
		}
		return types.ClassificationResult{}, err
	}

	c.logger.Debug("classified document",
		zap.String("path", path),
		zap.Int("total_pages", result.TotalPageCount),
		zap.Int("text_pages", result.TextPageCount),
		zap.Float64("rate", result.Rate),
		zap.Bool("scanned", result.IsScanned),
	)
	return result, nil
}
