// Package download turns a source reference (local path, direct media
// URL, or a video page URL handled by yt-dlp) into a local audio file.
package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Result describes the acquired audio.
type Result struct {
	Path string
	// Name is a human-readable label for the source (file base name or
	// URL path), used for output naming.
	Name string
	// Downloaded is false when the source was already a local file; the
	// caller must not delete the user's own file.
	Downloaded bool
}

// Audio resolves source into a local audio file under destDir.
func Audio(ctx context.Context, source, destDir string) (*Result, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if isDirectMediaURL(u.Path) {
			return fetchDirect(ctx, source, u, destDir)
		}
		return fetchWithYtDlp(ctx, source, destDir)
	}

	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("source %q is neither a URL nor an existing file: %w", source, err)
	}
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return &Result{Path: source, Name: name, Downloaded: false}, nil
}

// isDirectMediaURL reports whether the URL path ends in a known audio
// extension, meaning a plain GET will do.
func isDirectMediaURL(urlPath string) bool {
	ext := strings.ToLower(filepath.Ext(urlPath))
	switch ext {
	case ".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".aac", ".opus":
		return true
	}
	return false
}

func fetchDirect(ctx context.Context, source string, u *url.URL, destDir string) (*Result, error) {
	destPath := filepath.Join(destDir, fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(u.Path)))

	log.Printf("Downloading audio: %s", source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: http %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write downloaded file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
	return &Result{Path: destPath, Name: name, Downloaded: true}, nil
}

// fetchWithYtDlp extracts audio from a video page URL. Requires yt-dlp
// in PATH (pip install yt-dlp).
func fetchWithYtDlp(ctx context.Context, source, destDir string) (*Result, error) {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return nil, fmt.Errorf("yt-dlp not found in PATH (pip install yt-dlp)")
	}

	destPath := filepath.Join(destDir, fmt.Sprintf("%s.mp3", uuid.New().String()))

	log.Printf("Using yt-dlp to download: %s", source)

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-warnings",
		"-o", destPath,
		source,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %v\nOutput: %s", err, string(output))
	}

	// Fetch the title for output naming; failure is non-fatal.
	name := "download"
	titleCmd := exec.CommandContext(ctx, "yt-dlp", "--print", "title", "--no-warnings", "--skip-download", source)
	if titleOut, err := titleCmd.Output(); err == nil {
		if t := strings.TrimSpace(string(titleOut)); t != "" {
			name = t
		}
	}

	log.Printf("Audio downloaded successfully")
	return &Result{Path: destPath, Name: name, Downloaded: true}, nil
}
