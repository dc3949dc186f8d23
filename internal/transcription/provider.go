package transcription

import (
	"context"
	"strings"

	"github.com/codebuildervaibhav/clean-transcribe/internal/progress"
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// ModelSpec describes one model a provider recognizes, with its
// capability flags. Specs are static per provider.
type ModelSpec struct {
	Family             string
	ID                 string
	Local              bool
	SupportsTimestamps bool
	SupportsLanguage   bool
	SupportsPrompt     bool
	// MaxPayloadBytes is the backend's per-request ceiling; 0 means no
	// practical limit (local compute never chunks).
	MaxPayloadBytes int64
}

// Request carries one transcription invocation.
type Request struct {
	AudioPath string
	ModelID   string
	Language  string // optional ISO-639-1-like hint
	Prompt    string // optional free-text context
	Reporter  progress.Reporter
}

func (r Request) reporter() progress.Reporter {
	if r.Reporter == nil {
		return progress.Noop{}
	}
	return r.Reporter
}

// Provider is one transcription backend family. Implementations validate
// model ids against their own Models list, check prerequisites before any
// I/O, and translate their backend's native response into the unified
// result shape.
type Provider interface {
	Family() string
	Models() []ModelSpec
	// Usable returns nil when the provider's runtime prerequisites
	// (credentials, binaries, model files) are satisfied. Computed from
	// the environment, never re-probed per call by the registry.
	Usable() error
	Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error)
}

// contextHintWords is how much of the previous chunk's tail is passed to
// the next chunk as a continuation hint.
const contextHintWords = 10

// chunkPrompt folds the tail of the previous chunk's text into the user
// prompt so the backend keeps continuity across the chunk boundary.
func chunkPrompt(userPrompt, prevText string) string {
	words := strings.Fields(prevText)
	if len(words) > contextHintWords {
		words = words[len(words)-contextHintWords:]
	}
	if len(words) == 0 {
		return userPrompt
	}
	hint := "Previous context: " + strings.Join(words, " ") + "."
	if userPrompt == "" {
		return hint
	}
	return hint + " " + userPrompt
}

// findSpec returns the spec for id among specs, or false.
func findSpec(specs []ModelSpec, id string) (ModelSpec, bool) {
	for _, s := range specs {
		if s.ID == id {
			return s, true
		}
	}
	return ModelSpec{}, false
}

// textOnlyResult wraps a plain-text backend response as a single
// zero-width segment, the convention for "no timing available".
func textOnlyResult(text, language string) *types.TranscriptionResult {
	if language == "" {
		language = types.LanguageUnknown
	}
	return &types.TranscriptionResult{
		Text:     text,
		Language: language,
		Segments: []types.Segment{{Start: 0, End: 0, Text: text}},
	}
}
