// Command transcribe is the one-shot CLI: take a local file or URL,
// transcribe it with the chosen model, optionally clean the transcript,
// and write the result to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/cleaner"
	"github.com/codebuildervaibhav/clean-transcribe/internal/download"
	"github.com/codebuildervaibhav/clean-transcribe/internal/format"
	"github.com/codebuildervaibhav/clean-transcribe/internal/progress"
	"github.com/codebuildervaibhav/clean-transcribe/internal/storage"
	"github.com/codebuildervaibhav/clean-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
	"github.com/codebuildervaibhav/clean-transcribe/internal/version"
)

func main() {
	var (
		output        = flag.String("o", "", "output file path (default: <source name>.<format>)")
		outputFormat  = flag.String("f", format.Text, "output format: txt, srt or vtt")
		modelID       = flag.String("m", "turbo", "model id (see -list-models)")
		language      = flag.String("l", "", "language hint (e.g. en, hi); auto-detect when empty")
		prompt        = flag.String("p", "", "context prompt passed to the model")
		keepAudio     = flag.Bool("keep-audio", false, "keep downloaded audio instead of deleting it")
		noClean       = flag.Bool("no-clean", false, "skip the LLM cleaning pass")
		llmModel      = flag.String("llm-model", "gemini-2.0-flash", "Gemini model for the cleaning pass")
		cleaningStyle = flag.String("cleaning-style", "presentation", "cleaning style: "+strings.Join(cleaner.Styles(), ", "))
		saveRaw       = flag.Bool("save-raw", false, "also save the raw transcript before cleaning")
		modelDir      = flag.String("whispercpp-models", "models", "directory with ggml model files for whispercpp")
		listModels    = flag.Bool("list-models", false, "list models per provider and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: transcribe [flags] <file-or-url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := buildRegistry(*modelDir)
	if err != nil {
		log.Fatalf("provider setup: %v", err)
	}

	if *listModels {
		printModels(registry)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	source := flag.Arg(0)

	if notice := version.CheckForUpdates(ctx); notice != "" {
		log.Println(notice)
	}

	if !format.Supported(*outputFormat) {
		log.Fatalf("unsupported output format %q (txt, srt or vtt)", *outputFormat)
	}

	audio, err := download.Audio(ctx, source, os.TempDir())
	if err != nil {
		log.Fatalf("acquire audio: %v", err)
	}
	if audio.Downloaded && !*keepAudio {
		defer os.Remove(audio.Path)
	}

	started := time.Now()
	result, err := registry.Transcribe(ctx, transcription.Request{
		AudioPath: audio.Path,
		ModelID:   *modelID,
		Language:  *language,
		Prompt:    *prompt,
		Reporter:  progress.NewConsole(),
	})
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	result.CountWords()
	result.ProcessedAt = time.Now()
	log.Printf("Transcribed %d words in %s (language: %s)",
		result.WordCount, time.Since(started).Round(time.Second), result.Language)

	outPath := *output
	if outPath == "" {
		outPath = storage.SanitizeFilename(audio.Name) + "." + *outputFormat
	}

	if *saveRaw {
		rawPath := rawPathFor(outPath)
		if err := writeResult(result, format.Text, rawPath); err != nil {
			log.Fatalf("save raw transcript: %v", err)
		}
		log.Printf("Raw transcript saved to %s", rawPath)
	}

	if !*noClean {
		c := cleaner.New(*llmModel)
		if err := c.Usable(); err != nil {
			log.Printf("WARNING: skipping cleaning: %v", err)
		} else {
			cleaned, err := c.Clean(ctx, result.Text, *cleaningStyle)
			if err != nil {
				log.Printf("WARNING: cleaning failed, keeping raw transcript: %v", err)
			} else {
				result.Text = cleaned
				// Cleaned text no longer lines up with the original
				// segment boundaries.
				result.Segments = []types.Segment{{Start: 0, End: 0, Text: cleaned}}
				result.CountWords()
			}
		}
	}

	if err := writeResult(result, *outputFormat, outPath); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("Transcript saved to %s", outPath)
}

func buildRegistry(whisperCPPModelDir string) (*transcription.Registry, error) {
	registry := transcription.NewRegistry()
	providers := []transcription.Provider{
		transcription.NewWhisperProvider(),
		transcription.NewWhisperCPPProvider(whisperCPPModelDir),
		transcription.NewOpenAIProvider(),
		transcription.NewVoxtralProvider(),
		transcription.NewGeminiProvider(),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func printModels(registry *transcription.Registry) {
	families := registry.Families()
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	available := registry.AvailableModels()
	for _, name := range names {
		if err := families[name]; err != nil {
			fmt.Printf("%s (unavailable: %v)\n", name, err)
			continue
		}
		fmt.Printf("%s\n", name)
		for _, id := range available[name] {
			fmt.Printf("  %s\n", id)
		}
	}
}

func writeResult(result *types.TranscriptionResult, outputFormat, path string) error {
	rendered, err := format.Render(result, outputFormat)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(rendered), 0644)
}

// rawPathFor derives the raw-transcript path from the output path:
// talk.txt -> talk_raw.txt.
func rawPathFor(outPath string) string {
	ext := filepath.Ext(outPath)
	return strings.TrimSuffix(outPath, ext) + "_raw.txt"
}
