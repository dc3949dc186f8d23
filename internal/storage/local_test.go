package storage

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with spaces ok", "with spaces ok"},
		{"../../etc/passwd", "passwd"},
		{"a:b*c?d", "a_b_c_d"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveTranscript(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	result := &types.TranscriptionResult{
		JobID:       "job-1",
		Text:        "hello world",
		Language:    "en",
		Duration:    3.5,
		WordCount:   2,
		ModelID:     "turbo",
		ProcessedAt: time.Now(),
		Segments:    []types.Segment{{Start: 0, End: 3.5, Text: "hello world"}},
	}

	path, err := ls.SaveTranscript("My Talk", "hello world\n", "txt", result)
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "hello world\n" {
		t.Errorf("transcript content = %q", content)
	}
	if !strings.HasSuffix(path, ".txt") {
		t.Errorf("path %q should use the format extension", path)
	}

	metaPath := strings.TrimSuffix(path, ".txt") + "_meta.json"
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("metadata file missing: %v", err)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		t.Fatal(err)
	}
	if meta["job_id"] != "job-1" {
		t.Errorf("meta job_id = %v", meta["job_id"])
	}
	if meta["model_used"] != "turbo" {
		t.Errorf("meta model_used = %v", meta["model_used"])
	}
}
