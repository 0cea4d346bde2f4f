// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFSource extracts per-page plain text with github.com/ledongthuc/pdf.
type PDFSource struct {
	logger *zap.Logger
}

// NewPDFSource creates a PDFSource. A nil logger disables logging.
func NewPDFSource(logger *zap.Logger) *PDFSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFSource{logger: logger}
}

// PageTextLengths returns the rune count of each page's plain text. A page
// whose text cannot be extracted counts as empty; a document that cannot be
// opened is an *UnreadableDocumentError.
func (s *PDFSource) PageTextLengths(path string) (lengths []int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			lengths = nil
			err = &UnreadableDocumentError{Path: path, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &UnreadableDocumentError{Path: path, Err: err}
	}
	defer f.Close()

	n := r.NumPage()
	lengths = make([]int, n)
	for i := 1; i <= n; i++ {
		lengths[i-1] = s.pageLength(r, path, i)
	}
	return lengths, nil
}

func (s *PDFSource) pageLength(r *pdf.Reader, path string, num int) (n int) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Debug("page text extraction panicked",
				zap.String("path", path), zap.Int("page", num), zap.Any("panic", rec))
			n = 0
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return 0
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		s.logger.Debug("page text extraction failed",
			zap.String("path", path), zap.Int("page", num), zap.Error(err))
		return 0
	}
	return utf8.RuneCountInString(text)
}
