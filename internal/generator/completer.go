package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse marks a provider answer with no content.
var ErrEmptyResponse = errors.New("provider returned an empty response")

// Completer sends one system+user exchange to a chat model.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	Provider() string
}

// --- OpenAI ---

type openAICompleter struct {
	client      *openaigo.Client
	model       string
	temperature float32
}

func newOpenAICompleter(cfg TextConfig) *openAICompleter {
	oc := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &openAICompleter{
		client:      openaigo.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (c *openAICompleter) Provider() string { return ProviderOpenAI }

func (c *openAICompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: system},
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// --- Ollama ---

type ollamaCompleter struct {
	client      *api.Client
	model       string
	temperature float32
}

func newOllamaCompleter(cfg TextConfig) (*ollamaCompleter, error) {
	// api.NewClient wants the base URL without the /v1 suffix
	base := strings.TrimSuffix(strings.TrimSuffix(cfg.BaseURL, "/"), "/v1")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", base, err)
	}
	return &ollamaCompleter{
		client:      api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *ollamaCompleter) Provider() string { return ProviderOllama }

func (c *ollamaCompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": c.temperature,
			"num_predict": maxTokens,
		},
	}

	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Message.Content, nil
}

// NewCompleter builds the provider client selected by cfg.Provider.
func NewCompleter(cfg TextConfig) (Completer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return newOpenAICompleter(cfg), nil
	case ProviderOllama:
		return newOllamaCompleter(cfg)
	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Provider)
	}
}
