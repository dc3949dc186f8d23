//go:build whisper_cpp

package transcription

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func cppBuilt() error { return nil }

// cppTranscribe loads the ggml model, decodes the normalized WAV into
// float32 samples and runs a full-context pass, collecting segments as
// they are decoded.
func cppTranscribe(modelPath, wavPath, language string) (*types.TranscriptionResult, error) {
	model, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	defer model.Close()

	samples, err := readWavSamples(wavPath)
	if err != nil {
		return nil, err
	}

	ctx, err := model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	ctx.SetThreads(uint(runtime.NumCPU()))
	if language == "" {
		language = "auto"
	}
	_ = ctx.SetLanguage(language)
	ctx.SetTokenTimestamps(true)

	var (
		segments []types.Segment
		texts    []string
	)
	segCB := func(seg whisperpkg.Segment) {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			return
		}
		segments = append(segments, types.Segment{
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  text,
		})
		texts = append(texts, text)
	}

	if err := ctx.Process(samples, nil, segCB, nil); err != nil {
		return nil, fmt.Errorf("process audio: %w", err)
	}

	detected := ctx.Language()
	if detected == "" || detected == "auto" {
		detected = ctx.DetectedLanguage()
	}
	if detected == "" || detected == "auto" {
		detected = types.LanguageUnknown
	}

	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	return &types.TranscriptionResult{
		Text:     strings.Join(texts, " "),
		Language: detected,
		Duration: duration,
		Segments: segments,
	}, nil
}

// readWavSamples decodes a 16kHz mono 16-bit WAV into normalized
// float32 samples.
func readWavSamples(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}
