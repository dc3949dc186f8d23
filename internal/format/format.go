// Package format renders a transcription result as plain text or as
// SRT/VTT subtitles.
package format

import (
	"fmt"
	"strings"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// Supported output formats.
const (
	Text = "txt"
	SRT  = "srt"
	VTT  = "vtt"
)

// Supported reports whether name is a known output format.
func Supported(name string) bool {
	switch name {
	case Text, SRT, VTT:
		return true
	}
	return false
}

// Render formats the result. Subtitle formats need per-segment timing;
// a result without it (text-only providers) renders as a single cue
// spanning the estimated duration.
func Render(result *types.TranscriptionResult, format string) (string, error) {
	switch format {
	case Text:
		return result.Text + "\n", nil
	case SRT:
		return renderSRT(result), nil
	case VTT:
		return renderVTT(result), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// cues returns the segments to render, substituting one whole-text cue
// when the result has no usable timing.
func cues(result *types.TranscriptionResult) []types.Segment {
	if result.HasTiming() {
		return result.Segments
	}
	end := result.Duration
	if end <= 0 {
		// No duration known either; emit a nominal 5s cue so players
		// show something.
		end = 5
	}
	return []types.Segment{{Start: 0, End: end, Text: result.Text}}
}

func renderSRT(result *types.TranscriptionResult) string {
	var b strings.Builder
	for i, seg := range cues(result) {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(seg.Start), srtTimestamp(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderVTT(result *types.TranscriptionResult) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range cues(result) {
		fmt.Fprintf(&b, "%s --> %s\n", vttTimestamp(seg.Start), vttTimestamp(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// vttTimestamp formats seconds as HH:MM:SS.mmm.
func vttTimestamp(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitTime(seconds float64) (h, m, s, ms int) {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds * 1000)
	ms = total % 1000
	totalSec := total / 1000
	h = totalSec / 3600
	m = (totalSec % 3600) / 60
	s = totalSec % 60
	return
}
