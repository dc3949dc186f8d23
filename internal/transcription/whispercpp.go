package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

const whisperCPPFamily = "whispercpp"

// WhisperCPPProvider runs whisper.cpp through its Go bindings. The cgo
// implementation lives behind the whisper_cpp build tag; without the tag
// the provider reports itself unusable instead of failing at build time.
type WhisperCPPProvider struct {
	modelDir string
}

// NewWhisperCPPProvider expects ggml model files (ggml-<size>.bin) under
// modelDir.
func NewWhisperCPPProvider(modelDir string) *WhisperCPPProvider {
	if modelDir == "" {
		modelDir = "models"
	}
	return &WhisperCPPProvider{modelDir: modelDir}
}

func (p *WhisperCPPProvider) Family() string { return whisperCPPFamily }

func (p *WhisperCPPProvider) Models() []ModelSpec {
	ids := []string{"ggml-tiny", "ggml-base", "ggml-small", "ggml-medium"}
	specs := make([]ModelSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, ModelSpec{
			Family:             whisperCPPFamily,
			ID:                 id,
			Local:              true,
			SupportsTimestamps: true,
			SupportsLanguage:   true,
		})
	}
	return specs
}

func (p *WhisperCPPProvider) modelPath(modelID string) string {
	return filepath.Join(p.modelDir, modelID+".bin")
}

func (p *WhisperCPPProvider) Usable() error {
	if err := cppBuilt(); err != nil {
		return err
	}
	for _, spec := range p.Models() {
		if _, err := os.Stat(p.modelPath(spec.ID)); err == nil {
			return nil
		}
	}
	return &ConfigError{
		Family: whisperCPPFamily,
		Reason: fmt.Sprintf("no ggml model files found under %s", p.modelDir),
		Fix:    "download a ggml model, e.g. ggml-base.bin, into the model directory",
	}
}

func (p *WhisperCPPProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	if _, ok := findSpec(p.Models(), req.ModelID); !ok {
		return nil, fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, req.ModelID, whisperCPPFamily)
	}
	if err := cppBuilt(); err != nil {
		return nil, err
	}
	modelPath := p.modelPath(req.ModelID)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, &ConfigError{
			Family: whisperCPPFamily,
			Reason: fmt.Sprintf("model file %s not found", modelPath),
			Fix:    "download the ggml model into the model directory",
		}
	}

	rep := req.reporter()
	rep.Begin(fmt.Sprintf("Transcribing with whisper.cpp %s", req.ModelID), 2)
	defer rep.End()

	// whisper.cpp wants 16kHz mono PCM.
	wavPath, err := NormalizeAudio(ctx, req.AudioPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(wavPath)
	rep.Advance(1)

	result, err := cppTranscribe(modelPath, wavPath, req.Language)
	if err != nil {
		return nil, err
	}
	rep.Advance(1)
	return result, nil
}
