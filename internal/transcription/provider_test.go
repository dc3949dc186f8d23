package transcription

import (
	"encoding/json"
	"testing"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func TestChunkPrompt(t *testing.T) {
	tests := []struct {
		name       string
		userPrompt string
		prevText   string
		want       string
	}{
		{
			name:     "no previous text",
			prevText: "",
			want:     "",
		},
		{
			name:       "no previous text keeps user prompt",
			userPrompt: "technical talk",
			prevText:   "",
			want:       "technical talk",
		},
		{
			name:     "short tail used whole",
			prevText: "so we deployed it",
			want:     "Previous context: so we deployed it.",
		},
		{
			name:     "long tail truncated to last ten words",
			prevText: "one two three four five six seven eight nine ten eleven twelve",
			want:     "Previous context: three four five six seven eight nine ten eleven twelve.",
		},
		{
			name:       "hint prepended to user prompt",
			userPrompt: "technical talk",
			prevText:   "so we deployed it",
			want:       "Previous context: so we deployed it. technical talk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chunkPrompt(tt.userPrompt, tt.prevText); got != tt.want {
				t.Errorf("chunkPrompt(%q, %q) = %q, want %q", tt.userPrompt, tt.prevText, got, tt.want)
			}
		})
	}
}

func TestTextOnlyResult(t *testing.T) {
	r := textOnlyResult("hello world", "")
	if r.Language != types.LanguageUnknown {
		t.Errorf("language = %q, want %q", r.Language, types.LanguageUnknown)
	}
	if len(r.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(r.Segments))
	}
	s := r.Segments[0]
	if s.Start != 0 || s.End != 0 || s.Text != "hello world" {
		t.Errorf("segment = %+v, want zero-width with full text", s)
	}
	if r.HasTiming() {
		t.Error("zero-width segment must not count as timing")
	}
}

func TestMapOpenAIResponse(t *testing.T) {
	raw := `{
		"text": " Hello there. General Kenobi. ",
		"language": "english",
		"duration": 4.2,
		"segments": [
			{"id": 0, "start": 0.0, "end": 2.1, "text": " Hello there."},
			{"id": 1, "start": 2.1, "end": 4.2, "text": " General Kenobi."}
		]
	}`
	var or openAIResponse
	if err := json.Unmarshal([]byte(raw), &or); err != nil {
		t.Fatal(err)
	}

	result := mapOpenAIResponse(&or)
	if result.Text != "Hello there. General Kenobi." {
		t.Errorf("text = %q", result.Text)
	}
	if result.Language != "english" {
		t.Errorf("language = %q, want english", result.Language)
	}
	if result.Duration != 4.2 {
		t.Errorf("duration = %v, want 4.2", result.Duration)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(result.Segments))
	}
	if result.Segments[1].Text != "General Kenobi." {
		t.Errorf("segment text = %q, want trimmed", result.Segments[1].Text)
	}
	if !result.HasTiming() {
		t.Error("verbose_json response should carry timing")
	}
}

func TestMapOpenAIResponsePlainText(t *testing.T) {
	or := &openAIResponse{Text: "just text"}
	result := mapOpenAIResponse(or)
	if result.Language != types.LanguageUnknown {
		t.Errorf("language = %q, want %q", result.Language, types.LanguageUnknown)
	}
	if len(result.Segments) != 0 {
		t.Errorf("got %d segments, want 0", len(result.Segments))
	}
}
