package queue

import (
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// Job represents one transcription request moving through the pipeline.
type Job struct {
	ID            string
	RequestName   string
	SourceType    string
	FilePath      string
	ModelID       string
	Language      string
	Prompt        string
	OutputFormat  string
	Clean         bool
	CleaningStyle string
	Status        string
	Error         error
	Result        *types.TranscriptionResult
	CreatedAt     time.Time
}
