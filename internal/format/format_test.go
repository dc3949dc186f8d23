package format

import (
	"strings"
	"testing"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func timedResult() *types.TranscriptionResult {
	return &types.TranscriptionResult{
		Text: "Hello there. General Kenobi.",
		Segments: []types.Segment{
			{Start: 0, End: 2.5, Text: "Hello there."},
			{Start: 2.5, End: 4.25, Text: "General Kenobi."},
		},
		Duration: 4.25,
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{Text, SRT, VTT} {
		if !Supported(name) {
			t.Errorf("Supported(%q) = false", name)
		}
	}
	if Supported("pdf") {
		t.Error("Supported(pdf) = true")
	}
}

func TestRenderText(t *testing.T) {
	out, err := Render(timedResult(), Text)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello there. General Kenobi.\n" {
		t.Errorf("text render = %q", out)
	}
}

func TestRenderSRT(t *testing.T) {
	out, err := Render(timedResult(), SRT)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there.\n\n" +
		"2\n00:00:02,500 --> 00:00:04,250\nGeneral Kenobi.\n\n"
	if out != want {
		t.Errorf("srt render = %q, want %q", out, want)
	}
}

func TestRenderVTT(t *testing.T) {
	out, err := Render(timedResult(), VTT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Errorf("vtt output missing header: %q", out)
	}
	if !strings.Contains(out, "00:00:02.500 --> 00:00:04.250\nGeneral Kenobi.") {
		t.Errorf("vtt cue missing: %q", out)
	}
}

func TestRenderSubtitlesWithoutTiming(t *testing.T) {
	// Text-only results carry a single zero-width segment; subtitle output
	// falls back to one cue spanning the known duration.
	r := &types.TranscriptionResult{
		Text:     "no timing here",
		Segments: []types.Segment{{Start: 0, End: 0, Text: "no timing here"}},
		Duration: 12,
	}
	out, err := Render(r, SRT)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:12,000\nno timing here\n\n"
	if out != want {
		t.Errorf("srt fallback = %q, want %q", out, want)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(timedResult(), "docx"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTimestampRounding(t *testing.T) {
	if got := srtTimestamp(3661.2345); got != "01:01:01,234" {
		t.Errorf("srtTimestamp = %q", got)
	}
	if got := vttTimestamp(-1); got != "00:00:00.000" {
		t.Errorf("negative timestamp = %q, want clamped to zero", got)
	}
}
