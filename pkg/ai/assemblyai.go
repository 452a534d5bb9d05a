package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// AssemblyAIClient wraps the official SDK for blocking speech-to-text
type AssemblyAIClient struct {
	sdk          *aai.Client
	languageCode string
	timeout      time.Duration
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config
func NewAssemblyAIClient(cfg *config.AssemblyConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}

	c := &AssemblyAIClient{
		sdk:          aai.NewClient(apiKey),
		languageCode: "en",
		timeout:      10 * time.Minute,
	}
	if cfg != nil {
		if cfg.LanguageCode != "" {
			c.languageCode = cfg.LanguageCode
		}
		if cfg.Timeout > 0 {
			c.timeout = cfg.Timeout
		}
	}
	return c
}

// TranscribeURL submits audioURL and waits for the finished transcript.
// Returns the text and the language code AssemblyAI reports.
func (c *AssemblyAIClient) TranscribeURL(ctx context.Context, audioURL string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(c.languageCode),
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return "", "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", "", fmt.Errorf("assemblyai error: %s", msg)
	}

	var text string
	if transcript.Text != nil {
		text = strings.TrimSpace(*transcript.Text)
	}
	lang := string(transcript.LanguageCode)
	if lang == "" {
		lang = c.languageCode
	}
	return text, lang, nil
}
