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
	openAIFamily   = "openai"
	openAIEndpoint = "https://api.openai.com/v1/audio/transcriptions"

	// 25MB payload limit on the audio transcriptions endpoint.
	openAIMaxPayload int64 = 25 * 1024 * 1024
)

// OpenAIProvider transcribes through the hosted OpenAI API. whisper-1
// returns verbose_json with per-segment timing; the gpt-4o transcribe
// models return plain text only.
type OpenAIProvider struct {
	apiKey string
	client *http.Client
}

func NewOpenAIProvider() *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

func (p *OpenAIProvider) Family() string { return openAIFamily }

func (p *OpenAIProvider) Models() []ModelSpec {
	return []ModelSpec{
		{Family: openAIFamily, ID: "whisper-1", SupportsTimestamps: true, SupportsLanguage: true, SupportsPrompt: true, MaxPayloadBytes: openAIMaxPayload},
		{Family: openAIFamily, ID: "gpt-4o-transcribe", SupportsLanguage: true, SupportsPrompt: true, MaxPayloadBytes: openAIMaxPayload},
		{Family: openAIFamily, ID: "gpt-4o-mini-transcribe", SupportsLanguage: true, SupportsPrompt: true, MaxPayloadBytes: openAIMaxPayload},
	}
}

func (p *OpenAIProvider) Usable() error {
	if p.apiKey == "" {
		return &ConfigError{
			Family: openAIFamily,
			Reason: "OpenAI API key is required",
			Fix:    "set the OPENAI_API_KEY environment variable",
		}
	}
	return nil
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	spec, ok := findSpec(p.Models(), req.ModelID)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an %s model", ErrUnknownModel, req.ModelID, openAIFamily)
	}
	if err := p.Usable(); err != nil {
		return nil, err
	}

	size, err := fileSize(req.AudioPath)
	if err != nil {
		return nil, err
	}

	call := func(ctx context.Context, audioPath, language, prompt string) (*types.TranscriptionResult, error) {
		return p.call(ctx, audioPath, req.ModelID, language, prompt)
	}

	if size > spec.MaxPayloadBytes {
		return transcribeChunked(ctx, req, spec, call)
	}

	rep := req.reporter()
	rep.Begin("Transcribing with OpenAI API", 1)
	defer rep.End()

	result, err := call(ctx, req.AudioPath, req.Language, req.Prompt)
	if err != nil {
		return nil, err
	}
	rep.Advance(1)

	if len(result.Segments) == 0 {
		return textOnlyResult(result.Text, result.Language), nil
	}
	return result, nil
}

// openAIResponse covers both the plain json and verbose_json shapes.
type openAIResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// call posts one clip to the transcriptions endpoint. whisper-1 requests
// verbose_json so segment timing comes back; the response stays
// chunk-relative here.
func (p *OpenAIProvider) call(ctx context.Context, audioPath, modelID, language, prompt string) (*types.TranscriptionResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{"model": modelID}
	if language != "" {
		fields["language"] = language
	}
	if prompt != "" {
		fields["prompt"] = prompt
	}
	if modelID == "whisper-1" {
		fields["response_format"] = "verbose_json"
		fields["timestamp_granularities[]"] = "segment"
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
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

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &BackendError{Family: openAIFamily, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &BackendError{
			Family: openAIFamily,
			Err:    fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var or openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, &BackendError{Family: openAIFamily, Err: fmt.Errorf("decode response: %w", err)}
	}

	return mapOpenAIResponse(&or), nil
}

// mapOpenAIResponse translates the vendor response into the unified
// result. This is the only place OpenAI field names appear.
func mapOpenAIResponse(or *openAIResponse) *types.TranscriptionResult {
	result := &types.TranscriptionResult{
		Text:     strings.TrimSpace(or.Text),
		Language: or.Language,
		Duration: or.Duration,
	}
	if result.Language == "" {
		result.Language = types.LanguageUnknown
	}
	for _, seg := range or.Segments {
		result.Segments = append(result.Segments, types.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result
}
