package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// GroqClient вызывает OpenAI-совместимый API Groq.
type GroqClient struct {
	apiKey    string
	model     string
	maxTokens int
	client    *openai.Client
}

// NewGroqClient создает клиент Groq с заданными параметрами.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if trimmed := strings.TrimRight(baseURL, "/"); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &GroqClient{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    openai.NewClientWithConfig(cfg),
	}
}

// Chat отправляет сообщения в Groq и возвращает текст ответа и сырой ответ API.
func (c *GroqClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, errors.New("groq api key is missing")
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: 0.2,
		MaxTokens:   resolveMaxTokens(c.maxTokens),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("groq api error: %w", err)
	}

	raw, _ := json.Marshal(resp)

	if len(resp.Choices) == 0 {
		return "", raw, errors.New("groq response missing choices")
	}

	return resp.Choices[0].Message.Content, raw, nil
}
