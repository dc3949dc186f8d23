package types

import (
	"strings"
	"time"
)

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
	SourceURL    = "url"
	SourceLocal  = "local"
)

// LanguageUnknown is reported when a provider cannot detect the language.
const LanguageUnknown = "unknown"

// Segment represents one timestamped span of transcribed speech.
// Start and End are absolute seconds on the whole-file timeline once
// merging has run; a text-only provider emits a single segment with
// Start == End == 0 meaning "no timing available".
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the unified provider output.
type TranscriptionResult struct {
	JobID       string
	Text        string
	Language    string
	Duration    float64
	Segments    []Segment
	WordCount   int
	ModelID     string
	ProcessedAt time.Time
	LocalPath   string
	GDriveURL   string
}

// HasTiming reports whether the result carries usable per-segment timing.
// The single zero-width segment convention counts as no timing.
func (r *TranscriptionResult) HasTiming() bool {
	for _, s := range r.Segments {
		if s.End > s.Start {
			return true
		}
	}
	return false
}

// CountWords fills WordCount from Text.
func (r *TranscriptionResult) CountWords() {
	r.WordCount = len(strings.Fields(r.Text))
}
