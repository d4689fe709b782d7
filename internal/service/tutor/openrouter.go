package tutor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel             = "deepseek/deepseek-chat"
)

// OpenRouterConfig - параметры подключения к OpenRouter
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer и Title передаются в заголовках HTTP-Referer и X-Title для атрибуции в OpenRouter
	Referer string
	Title   string
}

// OpenRouterProvider реализует Provider поверх OpenAI-совместимого API OpenRouter
type OpenRouterProvider struct {
	client *openai.Client
	model  string
}

// NewOpenRouterProvider создаёт провайдер. Пустой ключ - ошибка: демо-режим
// включается отсутствием провайдера, а не провайдером без ключа.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = DefaultOpenRouterBaseURL
	}
	config.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenRouterProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Complete отправляет запрос и возвращает текст первого варианта ответа
func (p *OpenRouterProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// ModelID возвращает идентификатор модели
func (p *OpenRouterProvider) ModelID() string {
	return p.model
}

// attributionTransport добавляет заголовки атрибуции OpenRouter
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}
