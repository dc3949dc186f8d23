package transcription

import (
	"strings"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// Merge combines per-chunk results, in index order, into one result on a
// continuous timeline. nominalChunkMs is the coarse offset advance used
// for chunks whose results carry no segments; it is the configured chunk
// duration, not the actual (possibly shorter, final-chunk) duration, so
// segment-less merges can drift. That matches the historical behaviour
// and the fix would change observable timestamps.
func Merge(results []*types.TranscriptionResult, nominalChunkMs int64) *types.TranscriptionResult {
	if len(results) == 0 {
		return &types.TranscriptionResult{
			Text:     "",
			Segments: []types.Segment{},
			Language: types.LanguageUnknown,
		}
	}
	if len(results) == 1 {
		return results[0]
	}

	var (
		texts    []string
		segments []types.Segment
		offset   float64
		language = types.LanguageUnknown
	)

	for _, r := range results {
		texts = append(texts, r.Text)

		if language == types.LanguageUnknown && r.Language != "" && r.Language != types.LanguageUnknown {
			language = r.Language
		}

		if len(r.Segments) > 0 {
			for _, s := range r.Segments {
				segments = append(segments, types.Segment{
					Start: s.Start + offset,
					End:   s.End + offset,
					Text:  s.Text,
				})
			}
			offset = segments[len(segments)-1].End
		} else {
			offset += float64(nominalChunkMs) / 1000.0
		}
	}

	merged := &types.TranscriptionResult{
		Text:     strings.Join(texts, " "),
		Segments: segments,
		Language: language,
	}
	if len(segments) > 0 {
		merged.Duration = segments[len(segments)-1].End
	}
	return merged
}
