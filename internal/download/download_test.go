package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIsDirectMediaURL(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/audio/talk.mp3", true},
		{"/a/b/c.WAV", true},
		{"/podcast.m4a", true},
		{"/watch", false},
		{"/video.mp4", false},
		{"/page.html", false},
	}
	for _, tt := range tests {
		if got := isDirectMediaURL(tt.path); got != tt.want {
			t.Errorf("isDirectMediaURL(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAudioLocalFilePassthrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "meeting.mp3")
	if err := os.WriteFile(src, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Audio(context.Background(), src, dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.Path != src {
		t.Errorf("path = %q, want the original file %q", result.Path, src)
	}
	if result.Downloaded {
		t.Error("local files must not be marked Downloaded")
	}
	if result.Name != "meeting" {
		t.Errorf("name = %q, want meeting", result.Name)
	}
}

func TestAudioMissingLocalFile(t *testing.T) {
	if _, err := Audio(context.Background(), "/no/such/file.mp3", t.TempDir()); err == nil {
		t.Error("expected error for missing file")
	}
}
