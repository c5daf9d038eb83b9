package ai

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// Transcriber wraps the official AssemblyAI SDK for synchronous
// speech-to-text. The SDK client is built lazily on first use so the server
// can start without a configured key.
type Transcriber struct {
	apiKey string
	logger *zap.Logger

	once   sync.Once
	client *aai.Client
}

// NewTranscriber creates a Transcriber from config.
func NewTranscriber(cfg *config.AssemblyAIConfig, logger *zap.Logger) *Transcriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	return &Transcriber{apiKey: apiKey, logger: logger}
}

// Available reports whether a speech-to-text key is configured.
func (t *Transcriber) Available() bool {
	return t.apiKey != ""
}

// Transcribe uploads the audio stream, waits for the transcript and returns
// its text. A completed transcript with no text is an error, not an empty
// success.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, language string) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("assemblyai client not configured")
	}
	t.once.Do(func() {
		t.client = aai.NewClient(t.apiKey)
	})

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(language)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}

	if t.logger != nil {
		t.logger.Info("🎙️ Starting transcription",
			zap.String("language", language),
		)
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcription failed: %s", msg)
	}
	if transcript.Text == nil || strings.TrimSpace(*transcript.Text) == "" {
		return "", fmt.Errorf("assemblyai returned an empty transcript")
	}

	if t.logger != nil {
		t.logger.Info("✅ Transcription completed",
			zap.Int("characters", len(*transcript.Text)),
		)
	}
	return *transcript.Text, nil
}
