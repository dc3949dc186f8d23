package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

const (
	voxtralFamily   = "voxtral"
	voxtralEndpoint = "https://api.mistral.ai/v1/audio/transcriptions"

	voxtralMaxPayload int64 = 20 * 1024 * 1024
)

// VoxtralProvider transcribes through the Mistral Voxtral API. The
// endpoint takes no prompt, so chunk boundary context hints are not
// available for this family.
type VoxtralProvider struct {
	apiKey string
	client *http.Client
}

func NewVoxtralProvider() *VoxtralProvider {
	return &VoxtralProvider{
		apiKey: os.Getenv("MISTRAL_API_KEY"),
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

func (p *VoxtralProvider) Family() string { return voxtralFamily }

func (p *VoxtralProvider) Models() []ModelSpec {
	return []ModelSpec{
		{Family: voxtralFamily, ID: "voxtral-mini-latest", SupportsTimestamps: true, SupportsLanguage: true, MaxPayloadBytes: voxtralMaxPayload},
		{Family: voxtralFamily, ID: "voxtral-small-latest", SupportsTimestamps: true, SupportsLanguage: true, MaxPayloadBytes: voxtralMaxPayload},
	}
}

func (p *VoxtralProvider) Usable() error {
	if p.apiKey == "" {
		return &ConfigError{
			Family: voxtralFamily,
			Reason: "Mistral API key is required",
			Fix:    "set the MISTRAL_API_KEY environment variable",
		}
	}
	return nil
}

func (p *VoxtralProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	spec, ok := findSpec(p.Models(), req.ModelID)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, req.ModelID, voxtralFamily)
	}
	if err := p.Usable(); err != nil {
		return nil, err
	}

	size, err := fileSize(req.AudioPath)
	if err != nil {
		return nil, err
	}

	call := func(ctx context.Context, audioPath, language, _ string) (*types.TranscriptionResult, error) {
		return p.call(ctx, audioPath, req.ModelID, language)
	}

	if size > spec.MaxPayloadBytes {
		return transcribeChunked(ctx, req, spec, call)
	}

	rep := req.reporter()
	rep.Begin("Transcribing with Voxtral API", 1)
	defer rep.End()

	result, err := call(ctx, req.AudioPath, req.Language, "")
	if err != nil {
		return nil, err
	}
	rep.Advance(1)

	if len(result.Segments) == 0 {
		return textOnlyResult(result.Text, result.Language), nil
	}
	return result, nil
}

type voxtralResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (p *VoxtralProvider) call(ctx context.Context, audioPath, modelID, language string) (*types.TranscriptionResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", modelID); err != nil {
		return nil, err
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("timestamp_granularities", "segment"); err != nil {
		return nil, err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, voxtralEndpoint, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &BackendError{Family: voxtralFamily, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &BackendError{
			Family: voxtralFamily,
			Err:    fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var vr voxtralResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, &BackendError{Family: voxtralFamily, Err: fmt.Errorf("decode response: %w", err)}
	}

	result := &types.TranscriptionResult{
		Text:     strings.TrimSpace(vr.Text),
		Language: vr.Language,
	}
	if result.Language == "" {
		result.Language = types.LanguageUnknown
	}
	for _, seg := range vr.Segments {
		result.Segments = append(result.Segments, types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result, nil
}
