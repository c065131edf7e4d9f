package localllm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "http://localhost:1234/v1"
	DefaultModel   = "gemma-3-12b-it"
)

// ChatClient is the subset of *openai.Client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to a local OpenAI-compatible server (LM Studio, llama.cpp, Ollama).
type Client struct {
	chat        ChatClient
	model       string
	Temperature float32
	MaxTokens   int
}

// NewClient creates a new client for the local LLM.
func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return NewWithChat(openai.NewClientWithConfig(cfg), model)
}

// NewWithChat wraps an existing chat client.
func NewWithChat(chat ChatClient, model string) *Client {
	return &Client{chat: chat, model: model, Temperature: 0.2, MaxTokens: 2048}
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content found in response")
	}
	content := resp.Choices[0].Message.Content
	log.Debug().Str("model", c.model).Int("response_len", len(content)).Msg("local llm response")
	return content, nil
}
