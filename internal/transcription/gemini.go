package transcription

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

const (
	geminiFamily  = "gemini"
	geminiBaseURL = "https://generativelanguage.googleapis.com"

	// Above this size the audio goes through the Gemini File API instead
	// of inline base64.
	geminiMaxInline int64 = 20 * 1024 * 1024
)

// geminiModels maps the tool-facing model ids to Gemini API model ids.
var geminiModels = map[string]string{
	"gemini-2.5-pro-api":        "gemini-2.5-pro",
	"gemini-2.5-flash-api":      "gemini-2.5-flash",
	"gemini-2.5-flash-lite-api": "gemini-2.5-flash-lite",
	"gemini-2.0-flash-api":      "gemini-2.0-flash",
}

var geminiMimeTypes = map[string]string{
	".mp3":  "audio/mp3",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".aiff": "audio/aiff",
	".m4a":  "audio/mp4",
}

// GeminiProvider transcribes audio through generateContent. Gemini
// returns plain text with no timing, so results are always the single
// zero-width segment convention. Oversized files are uploaded through
// the File API rather than chunked.
type GeminiProvider struct {
	apiKey string
	client *http.Client
}

func NewGeminiProvider() *GeminiProvider {
	return &GeminiProvider{
		apiKey: os.Getenv("GOOGLE_API_KEY"),
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

func (p *GeminiProvider) Family() string { return geminiFamily }

func (p *GeminiProvider) Models() []ModelSpec {
	ids := []string{"gemini-2.5-pro-api", "gemini-2.5-flash-api", "gemini-2.5-flash-lite-api", "gemini-2.0-flash-api"}
	specs := make([]ModelSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, ModelSpec{
			Family:           geminiFamily,
			ID:               id,
			SupportsLanguage: true,
			SupportsPrompt:   true,
		})
	}
	return specs
}

func (p *GeminiProvider) Usable() error {
	if p.apiKey == "" {
		return &ConfigError{
			Family: geminiFamily,
			Reason: "Google API key is required",
			Fix:    "set the GOOGLE_API_KEY environment variable (https://aistudio.google.com/apikey)",
		}
	}
	return nil
}

func (p *GeminiProvider) Transcribe(ctx context.Context, req Request) (*types.TranscriptionResult, error) {
	apiModel, ok := geminiModels[req.ModelID]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, req.ModelID, geminiFamily)
	}
	if err := p.Usable(); err != nil {
		return nil, err
	}

	size, err := fileSize(req.AudioPath)
	if err != nil {
		return nil, err
	}

	prompt := "Please transcribe this audio file. Provide only the transcription text, without any additional commentary or formatting."
	if req.Prompt != "" {
		prompt += " Additional context: " + req.Prompt
	}
	if req.Language != "" {
		prompt += " The audio is in " + req.Language + "."
	}

	rep := req.reporter()
	var text string
	if size < geminiMaxInline {
		rep.Begin("Transcribing with Gemini API", 1)
		defer rep.End()
		text, err = p.generateInline(ctx, apiModel, req.AudioPath, prompt)
		if err != nil {
			return nil, err
		}
		rep.Advance(1)
	} else {
		// Upload then reference: one step for the upload, one for the
		// generation call.
		rep.Begin("Transcribing with Gemini API (file upload)", 2)
		defer rep.End()
		fileURI, mimeType, err := p.uploadFile(ctx, req.AudioPath)
		if err != nil {
			return nil, err
		}
		rep.Advance(1)
		text, err = p.generateFromFile(ctx, apiModel, fileURI, mimeType, prompt)
		if err != nil {
			return nil, err
		}
		rep.Advance(1)
	}

	language := req.Language
	if language == "" {
		language = types.LanguageUnknown
	}
	return textOnlyResult(strings.TrimSpace(text), language), nil
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlob     `json:"inline_data,omitempty"`
	FileData   *geminiFileData `json:"file_data,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiFileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) generateInline(ctx context.Context, apiModel, audioPath, prompt string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}

	body := geminiGenerateRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiBlob{
					MimeType: geminiMimeType(audioPath),
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
			},
		}},
	}
	return p.generate(ctx, apiModel, &body)
}

func (p *GeminiProvider) generateFromFile(ctx context.Context, apiModel, fileURI, mimeType, prompt string) (string, error) {
	body := geminiGenerateRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{FileData: &geminiFileData{MimeType: mimeType, FileURI: fileURI}},
			},
		}},
	}
	return p.generate(ctx, apiModel, &body)
}

func (p *GeminiProvider) generate(ctx context.Context, apiModel string, body *geminiGenerateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", geminiBaseURL, apiModel, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &BackendError{Family: geminiFamily, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", &BackendError{
			Family: geminiFamily,
			Err:    fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var gr geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", &BackendError{Family: geminiFamily, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", &BackendError{Family: geminiFamily, Err: fmt.Errorf("empty response")}
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

type geminiUploadResponse struct {
	File struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	} `json:"file"`
}

// uploadFile pushes the audio through the Gemini File API and returns
// its URI for use in a generation call.
func (p *GeminiProvider) uploadFile(ctx context.Context, audioPath string) (uri, mimeType string, err error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	mimeType = geminiMimeType(audioPath)
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", geminiBaseURL, p.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", mimeType)
	httpReq.Header.Set("X-Goog-Upload-Protocol", "raw")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", "", &BackendError{Family: geminiFamily, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", "", &BackendError{
			Family: geminiFamily,
			Err:    fmt.Errorf("file upload http %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var ur geminiUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", "", &BackendError{Family: geminiFamily, Err: fmt.Errorf("decode upload response: %w", err)}
	}
	return ur.File.URI, mimeType, nil
}

func geminiMimeType(audioPath string) string {
	if mt, ok := geminiMimeTypes[strings.ToLower(filepath.Ext(audioPath))]; ok {
		return mt
	}
	return "audio/mpeg"
}
