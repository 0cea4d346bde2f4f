// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClassificationResult is the outcome of the scanned-document heuristic for
// one PDF. It is computed once per run and not persisted except as part of
// a PublishRecord.
type ClassificationResult struct {
	// TotalPageCount is the number of pages in the document.
	TotalPageCount int `json:"total_pages" yaml:"total_pages"`

	// TextPageCount is the number of pages whose extracted text is longer
	// than Threshold.
	TextPageCount int `json:"text_pages" yaml:"text_pages"`

	// Rate is TextPageCount / TotalPageCount.
	Rate float64 `json:"rate" yaml:"rate"`

	// IsScanned is Rate < MinRate.
	IsScanned bool `json:"is_scanned" yaml:"is_scanned"`

	// Threshold and MinRate record the parameters the result was computed with.
	Threshold int     `json:"threshold" yaml:"threshold"`
	MinRate   float64 `json:"min_rate" yaml:"min_rate"`
}
