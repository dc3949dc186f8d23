// Package cleaner post-processes raw transcripts with an LLM pass:
// filler-word removal, punctuation and paragraph structure. Cleaning is
// best-effort; on any failure the caller keeps the raw transcript.
package cleaner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// chunkWords is the word-window size for cleaning long transcripts; each
// window is cleaned independently and the outputs joined.
const chunkWords = 2000

// Style prompts. The style shapes how aggressively the pass restructures
// the text.
var stylePrompts = map[string]string{
	"presentation": "Clean up this presentation transcript. Remove filler words, false starts and repetitions. Add punctuation and paragraph breaks. Keep the speaker's wording and meaning intact.",
	"conversation": "Clean up this conversation transcript. Remove filler words and false starts but keep the conversational tone. Add punctuation.",
	"lecture":      "Clean up this lecture transcript. Remove filler words and verbal tics. Add punctuation, paragraph breaks and keep technical terms exactly as spoken.",
}

// Styles lists the supported cleaning styles.
func Styles() []string {
	return []string{"presentation", "conversation", "lecture"}
}

// Cleaner runs the LLM cleaning pass through the Gemini API.
type Cleaner struct {
	apiKey string
	model  string
	client *http.Client
}

// New creates a cleaner for the given Gemini model id (e.g.
// "gemini-2.0-flash").
func New(model string) *Cleaner {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Cleaner{
		apiKey: os.Getenv("GOOGLE_API_KEY"),
		model:  model,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Usable reports whether cleaning can run at all.
func (c *Cleaner) Usable() error {
	if c.apiKey == "" {
		return fmt.Errorf("cleaning requires GOOGLE_API_KEY to be set")
	}
	return nil
}

// Clean returns the cleaned transcript. Long transcripts are split into
// word windows cleaned independently, preserving order.
func (c *Cleaner) Clean(ctx context.Context, text, style string) (string, error) {
	if err := c.Usable(); err != nil {
		return "", err
	}
	prompt, ok := stylePrompts[style]
	if !ok {
		return "", fmt.Errorf("unknown cleaning style %q", style)
	}

	windows := SplitWords(text, chunkWords)
	if len(windows) == 0 {
		return "", nil
	}

	cleaned := make([]string, 0, len(windows))
	for i, window := range windows {
		if len(windows) > 1 {
			log.Printf("Cleaning transcript part %d/%d", i+1, len(windows))
		}
		out, err := c.generate(ctx, prompt+"\n\nTranscript:\n"+window)
		if err != nil {
			return "", fmt.Errorf("cleaning part %d/%d: %w", i+1, len(windows), err)
		}
		cleaned = append(cleaned, strings.TrimSpace(out))
	}

	return strings.Join(cleaned, "\n\n"), nil
}

// SplitWords partitions text into windows of at most maxWords words.
func SplitWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var windows []string
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
	}
	return windows
}

type textPart struct {
	Text string `json:"text"`
}

type generateRequest struct {
	Contents []struct {
		Parts []textPart `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []textPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Cleaner) generate(ctx context.Context, prompt string) (string, error) {
	var body generateRequest
	body.Contents = make([]struct {
		Parts []textPart `json:"parts"`
	}, 1)
	body.Contents[0].Parts = []textPart{{Text: prompt}}

	payload, err := json.Marshal(&body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", geminiBaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
