package transcription

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Chunking parameters.
const (
	// chunkSafetyMargin reserves headroom for container/encoding overhead
	// on top of the uniform-bitrate size estimate.
	chunkSafetyMargin = 0.8

	// DefaultChunkDurationMs is the target chunk length (10 minutes).
	DefaultChunkDurationMs int64 = 10 * 60 * 1000
)

// Chunk is one time-bounded sub-clip of a source file, produced solely to
// satisfy a backend's payload ceiling. Consumed by exactly one adapter
// call, then discarded.
type Chunk struct {
	Index      int
	Path       string
	StartMS    int64
	DurationMS int64
}

// Split partitions the source audio into consecutive chunks whose
// estimated sizes stay under maxPayloadBytes. A zero-duration source
// yields an empty sequence. The caller owns the returned chunk files;
// CleanupChunks removes them.
func Split(ctx context.Context, sourcePath string, maxPayloadBytes, targetChunkMs int64) ([]Chunk, error) {
	if maxPayloadBytes <= 0 {
		return nil, fmt.Errorf("max payload must be positive, got %d", maxPayloadBytes)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source audio: %w", err)
	}

	totalMs, err := ProbeDurationMs(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("probe audio duration: %w", err)
	}

	windows, err := planWindows(totalMs, info.Size(), maxPayloadBytes, targetChunkMs)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	tempDir, err := os.MkdirTemp("", "transcribe-chunks-*")
	if err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}

	chunks := make([]Chunk, 0, len(windows))
	for i, w := range windows {
		chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%03d.mp3", i))
		if err := extractChunk(ctx, sourcePath, chunkPath, w.startMs, w.durationMs); err != nil {
			os.RemoveAll(tempDir)
			return nil, err
		}
		chunks = append(chunks, Chunk{
			Index:      i,
			Path:       chunkPath,
			StartMS:    w.startMs,
			DurationMS: w.durationMs,
		})
	}

	return chunks, nil
}

// CleanupChunks removes the chunk files and their temp directory. Safe to
// call with an empty slice; runs regardless of transcription outcome.
func CleanupChunks(chunks []Chunk) {
	if len(chunks) == 0 {
		return
	}
	dir := filepath.Dir(chunks[0].Path)
	if strings.Contains(filepath.Base(dir), "transcribe-chunks-") {
		os.RemoveAll(dir)
		return
	}
	for _, c := range chunks {
		os.Remove(c.Path)
	}
}

type window struct {
	startMs    int64
	durationMs int64
}

// planWindows computes the chunk boundaries. Bytes-per-millisecond is
// estimated as fileSize/totalMs (uniform-bitrate assumption, approximate
// for VBR sources); the safe duration is capped by the target and by the
// payload ceiling with the safety margin applied.
func planWindows(totalMs, fileSize, maxPayloadBytes, targetChunkMs int64) ([]window, error) {
	if totalMs <= 0 {
		return nil, nil
	}
	if targetChunkMs <= 0 {
		targetChunkMs = DefaultChunkDurationMs
	}

	bytesPerMs := float64(fileSize) / float64(totalMs)
	safeMs := targetChunkMs
	if bytesPerMs > 0 {
		limitMs := int64(float64(maxPayloadBytes) * chunkSafetyMargin / bytesPerMs)
		if limitMs < safeMs {
			safeMs = limitMs
		}
	}
	if safeMs <= 0 {
		return nil, fmt.Errorf("%w: %.1f bytes/ms against a %d byte limit",
			ErrSizeInfeasible, bytesPerMs, maxPayloadBytes)
	}

	var windows []window
	for start := int64(0); start < totalMs; start += safeMs {
		dur := safeMs
		if start+dur > totalMs {
			dur = totalMs - start
		}
		windows = append(windows, window{startMs: start, durationMs: dur})
	}
	return windows, nil
}

// ProbeDurationMs returns the audio duration in milliseconds using
// ffprobe.
func ProbeDurationMs(ctx context.Context, path string) (int64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return int64(seconds * 1000), nil
}

// extractChunk cuts [startMs, startMs+durMs) out of the source into an
// MP3 file. Re-encoding keeps chunk sizes predictable for the payload
// estimate.
func extractChunk(ctx context.Context, sourcePath, chunkPath string, startMs, durMs int64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", sourcePath,
		"-ss", msToFFmpeg(startMs),
		"-t", msToFFmpeg(durMs),
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		chunkPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg chunk extraction failed: %v\nOutput: %s", err, string(output))
	}
	return nil
}

// msToFFmpeg formats milliseconds as a seconds value for -ss/-t.
func msToFFmpeg(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
}
