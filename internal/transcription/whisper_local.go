package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

const whisperFamily = "whisper"

// WhisperProvider runs local OpenAI Whisper through the whisper CLI with
// JSON output. Local compute has no payload ceiling, so this adapter
// never chunks.
type WhisperProvider struct {
	whisperCmd string
}

func NewWhisperProvider() *WhisperProvider {
	return &WhisperProvider{whisperCmd: "whisper"}
}

func (p *WhisperProvider) Family() string { return whisperFamily }

func (p *WhisperProvider) Models() []ModelSpec {
	ids := []string{"tiny", "base", "small", "medium", "large", "turbo"}
	specs := make([]ModelSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, ModelSpec{
			Family:             whisperFamily,
			ID:                 id,
			Local:              true,
			SupportsTimestamps: true,
			SupportsLanguage:   true,
			SupportsPrompt:     true,
		})
	}
	return specs
}

func (p *WhisperProvider) Usable() error {
	if _, err := exec.LookPath(p.whisperCmd); err != nil {
		return &ConfigError{
			Family: whisperFamily,
			Reason: "whisper CLI not found in PATH",
			Fix:    "pip install openai-whisper",
		}
	}
	return nil
}

func (p *WhisperProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	if _, ok := findSpec(p.Models(), req.ModelID); !ok {
		return nil, fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, req.ModelID, whisperFamily)
	}
	if err := p.Usable(); err != nil {
		return nil, err
	}

	rep := req.reporter()
	rep.Begin(fmt.Sprintf("Transcribing with Whisper %s model", req.ModelID), 1)
	defer rep.End()

	tempDir, err := os.MkdirTemp("", "whisper-output-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	absAudioPath, err := filepath.Abs(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	args := []string{
		absAudioPath,
		"--model", req.ModelID,
		"--output_dir", tempDir,
		"--output_format", "json",
		"--fp16", "False",
	}
	if req.Language != "" {
		args = append(args, "--language", req.Language)
	}
	if req.Prompt != "" {
		args = append(args, "--initial_prompt", req.Prompt)
	}

	cmd := exec.CommandContext(ctx, p.whisperCmd, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %v\nOutput: %s", err, string(output))
	}

	baseName := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	jsonPath := filepath.Join(tempDir, baseName+".json")

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper output: %w", err)
	}

	var wo whisperOutput
	if err := json.Unmarshal(jsonData, &wo); err != nil {
		return nil, fmt.Errorf("failed to parse whisper JSON: %w", err)
	}

	rep.Advance(1)
	return mapWhisperOutput(&wo), nil
}

// whisperOutput matches the whisper CLI's JSON output format.
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func mapWhisperOutput(wo *whisperOutput) *types.TranscriptionResult {
	segments := make([]types.Segment, len(wo.Segments))
	for i, seg := range wo.Segments {
		segments[i] = types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}

	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	language := wo.Language
	if language == "" {
		language = types.LanguageUnknown
	}

	return &types.TranscriptionResult{
		Text:     strings.TrimSpace(wo.Text),
		Language: language,
		Duration: duration,
		Segments: segments,
	}
}
