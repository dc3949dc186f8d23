package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// LocalStorage saves rendered transcripts and their metadata under a
// dated directory tree (outputs/2025/01/23/).
type LocalStorage struct {
	outputDir string
}

func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{outputDir: outputDir}
}

// SaveTranscript writes the rendered output plus a metadata JSON next to
// it. rendered is the formatted document (txt/srt/vtt); format decides
// the file extension.
func (ls *LocalStorage) SaveTranscript(requestName, rendered, outputFormat string, result *types.TranscriptionResult) (string, error) {
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %w", err)
	}

	timestamp := now.Format("20060102_150405")
	baseFilename := fmt.Sprintf("%s_%s", timestamp, SanitizeFilename(requestName))

	outPath := filepath.Join(dateDir, baseFilename+"."+outputFormat)
	metaPath := filepath.Join(dateDir, baseFilename+"_meta.json")

	if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %w", err)
	}

	metadata := map[string]interface{}{
		"job_id":           result.JobID,
		"request_name":     requestName,
		"model_used":       result.ModelID,
		"language":         result.Language,
		"duration_seconds": result.Duration,
		"word_count":       result.WordCount,
		"output_format":    outputFormat,
		"created_at":       result.ProcessedAt,
		"segments":         result.Segments,
		"local_path":       outPath,
		"gdrive_url":       result.GDriveURL,
	}

	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %w", err)
	}

	return outPath, nil
}

// SanitizeFilename strips path separators and characters that are
// invalid in filenames, and caps the length.
func SanitizeFilename(name string) string {
	result := filepath.Base(name)
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, ch := range invalid {
		result = strings.ReplaceAll(result, ch, "_")
	}
	if len(result) > 100 {
		result = result[:100]
	}
	return result
}
