// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PublishStatus is the final state of a publish run.
type PublishStatus string

const (
	PublishDone     PublishStatus = "published"
	PublishRejected PublishStatus = "rejected"
	PublishFailed   PublishStatus = "failed"
)

// PublishRecord is one entry of the publish history.
type PublishRecord struct {
	ID       int64         `json:"id" yaml:"id"`
	Repo     RepoSpec      `json:"repo" yaml:"repo"`
	DocPath  string        `json:"doc_path" yaml:"doc_path"`
	Public   bool          `json:"public" yaml:"public"`
	Forced   bool          `json:"forced" yaml:"forced"`
	URL      string        `json:"url,omitempty" yaml:"url,omitempty"`
	Status   PublishStatus `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Started  time.Time     `json:"started" yaml:"started"`
	Finished time.Time     `json:"finished" yaml:"finished"`

	// Classification is nil when the document was not classified (non-PDF
	// input, forced conversion, or a run that failed earlier).
	Classification *ClassificationResult `json:"classification,omitempty" yaml:"classification,omitempty"`
}
