//go:build !whisper_cpp

package transcription

import (
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

func cppBuilt() error {
	return &ConfigError{
		Family: whisperCPPFamily,
		Reason: "built without whisper.cpp support",
		Fix:    "rebuild with -tags whisper_cpp and the whisper.cpp library installed",
	}
}

func cppTranscribe(modelPath, wavPath, language string) (*types.TranscriptionResult, error) {
	return nil, cppBuilt()
}
