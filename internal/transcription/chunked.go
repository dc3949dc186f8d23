package transcription

import (
	"context"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// backendCall transcribes a single on-disk clip. Results are
// chunk-relative; the caller re-bases them.
type backendCall func(ctx context.Context, audioPath, language, prompt string) (*types.TranscriptionResult, error)

// transcribeChunked runs the oversized-file path shared by the hosted
// adapters: split under the payload ceiling, transcribe each chunk in
// index order (one at a time; later chunks' context hint depends on the
// previous chunk's completed text), then merge onto one timeline.
//
// A single chunk failure aborts the whole job and discards completed
// chunk results rather than returning a silently truncated transcript.
// Chunk temp files are cleaned up on every path.
func transcribeChunked(ctx context.Context, req Request, spec ModelSpec, call backendCall) (*types.TranscriptionResult, error) {
	chunks, err := Split(ctx, req.AudioPath, spec.MaxPayloadBytes, DefaultChunkDurationMs)
	if err != nil {
		return nil, err
	}
	defer CleanupChunks(chunks)

	rep := req.reporter()
	rep.Begin("Transcribing chunks", len(chunks))
	defer rep.End()

	results := make([]*types.TranscriptionResult, 0, len(chunks))
	prevText := ""
	for _, chunk := range chunks {
		prompt := req.Prompt
		if chunk.Index > 0 && spec.SupportsPrompt {
			prompt = chunkPrompt(req.Prompt, prevText)
		}

		result, err := call(ctx, chunk.Path, req.Language, prompt)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		prevText = result.Text
		rep.Advance(1)
	}

	merged := Merge(results, DefaultChunkDurationMs)
	if len(merged.Segments) == 0 && merged.Text != "" {
		// Text-only backend: surface the whole transcript as one
		// zero-width segment.
		merged.Segments = []types.Segment{{Start: 0, End: 0, Text: merged.Text}}
	}
	return merged, nil
}
