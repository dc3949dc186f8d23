package transcription

import (
	"math"
	"testing"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func seg(start, end float64, text string) types.Segment {
	return types.Segment{Start: start, End: end, Text: text}
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge(nil, DefaultChunkDurationMs)
	if merged.Text != "" {
		t.Errorf("text = %q, want empty", merged.Text)
	}
	if merged.Segments == nil || len(merged.Segments) != 0 {
		t.Errorf("segments = %v, want empty non-nil slice", merged.Segments)
	}
	if merged.Language != types.LanguageUnknown {
		t.Errorf("language = %q, want %q", merged.Language, types.LanguageUnknown)
	}
}

func TestMergeSingleChunkUnchanged(t *testing.T) {
	in := &types.TranscriptionResult{
		Text:     "hello there",
		Language: "en",
		Segments: []types.Segment{seg(0, 5, "hello there")},
	}
	merged := Merge([]*types.TranscriptionResult{in}, DefaultChunkDurationMs)
	if merged != in {
		t.Fatal("single chunk should pass through unchanged")
	}
}

func TestMergeRebasesTimestamps(t *testing.T) {
	a := &types.TranscriptionResult{
		Text:     "hello",
		Segments: []types.Segment{seg(0, 5, "hello")},
	}
	b := &types.TranscriptionResult{
		Text:     "world",
		Segments: []types.Segment{seg(0, 3, "world")},
	}

	merged := Merge([]*types.TranscriptionResult{a, b}, DefaultChunkDurationMs)

	if merged.Text != "hello world" {
		t.Errorf("text = %q, want %q", merged.Text, "hello world")
	}
	want := []types.Segment{seg(0, 5, "hello"), seg(5, 8, "world")}
	if len(merged.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(merged.Segments), len(want))
	}
	for i, s := range merged.Segments {
		if s.Start != want[i].Start || s.End != want[i].End || s.Text != want[i].Text {
			t.Errorf("segment %d = %+v, want %+v", i, s, want[i])
		}
	}
	if merged.Duration != 8 {
		t.Errorf("duration = %v, want 8", merged.Duration)
	}
}

func TestMergeMonotonicTimeline(t *testing.T) {
	results := []*types.TranscriptionResult{
		{Text: "a", Segments: []types.Segment{seg(0, 2, "a"), seg(2, 4, "a2")}},
		{Text: "b", Segments: []types.Segment{seg(0, 1, "b")}},
		{Text: "c", Segments: []types.Segment{seg(0, 6, "c")}},
	}
	merged := Merge(results, DefaultChunkDurationMs)

	prevEnd := 0.0
	for i, s := range merged.Segments {
		if s.Start < prevEnd {
			t.Errorf("segment %d starts at %v before previous end %v", i, s.Start, prevEnd)
		}
		if s.End < s.Start {
			t.Errorf("segment %d has End %v < Start %v", i, s.End, s.Start)
		}
		prevEnd = s.End
	}
}

func TestMergeSegmentlessChunksAdvanceByNominal(t *testing.T) {
	// Text-only chunk results carry no segments; each advances the offset
	// by the nominal chunk duration.
	results := []*types.TranscriptionResult{
		{Text: "first"},
		{Text: "second"},
		{Text: "third", Segments: []types.Segment{seg(0, 4, "third")}},
	}
	merged := Merge(results, DefaultChunkDurationMs)

	if merged.Text != "first second third" {
		t.Errorf("text = %q, want %q", merged.Text, "first second third")
	}
	if len(merged.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(merged.Segments))
	}
	// Two segment-less chunks at 600s each put the third chunk at 1200s.
	if got := merged.Segments[0].Start; math.Abs(got-1200) > 1e-9 {
		t.Errorf("rebased start = %v, want 1200", got)
	}
	if got := merged.Segments[0].End; math.Abs(got-1204) > 1e-9 {
		t.Errorf("rebased end = %v, want 1204", got)
	}
}

func TestMergeLanguageFromFirstKnown(t *testing.T) {
	results := []*types.TranscriptionResult{
		{Text: "a", Language: types.LanguageUnknown},
		{Text: "b", Language: "hi"},
		{Text: "c", Language: "en"},
	}
	merged := Merge(results, DefaultChunkDurationMs)
	if merged.Language != "hi" {
		t.Errorf("language = %q, want %q", merged.Language, "hi")
	}
}
