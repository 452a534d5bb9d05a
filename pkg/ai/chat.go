package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// ChatClient sends single-prompt chat completions to an OpenAI-compatible endpoint
type ChatClient struct {
	cli         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewChatClient creates a chat client using values from the provided config.
// A nil config yields a client with defaults and no API key.
func NewChatClient(cfg *config.LLMConfig) *ChatClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg != nil && cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	c := &ChatClient{
		cli:         openai.NewClientWithConfig(clientConfig),
		model:       "gemini-2.0-flash-lite",
		temperature: 0.2,
		maxTokens:   1024,
		timeout:     60 * time.Second,
	}
	if cfg != nil {
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		if cfg.Temperature > 0 {
			c.temperature = cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			c.maxTokens = cfg.MaxTokens
		}
		if cfg.Timeout > 0 {
			c.timeout = cfg.Timeout
		}
	}
	return c
}

// Model returns the configured model name
func (c *ChatClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the trimmed reply
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
