package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient вызывает Gemini через официальный SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// ModelInfo описывает модель Gemini, доступную для generateContent.
type ModelInfo struct {
	Name        string
	DisplayName string
}

// NewGeminiClient создает клиент Gemini с заданными параметрами.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, maxTokens int) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is missing")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Close освобождает соединения SDK.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Chat отправляет сообщения в Gemini и возвращает текст ответа и сырой ответ API.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	systemParts := make([]genai.Part, 0)
	contents := make([]*genai.Content, 0)

	for _, message := range messages {
		role := strings.ToLower(strings.TrimSpace(message.Role))
		text := strings.TrimSpace(message.Content)
		if text == "" {
			continue
		}

		switch role {
		case "system":
			systemParts = append(systemParts, genai.Text(text))
		case "assistant", "model":
			contents = append(contents, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(text)}})
		}
	}

	if len(contents) == 0 {
		return "", nil, errors.New("gemini request has no user content")
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(int32(resolveMaxTokens(c.maxTokens)))
	model.ResponseMIMEType = "application/json"
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{Parts: systemParts}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]
	last := contents[len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", nil, fmt.Errorf("gemini api error: %w", err)
	}

	raw, _ := json.Marshal(resp)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", raw, errors.New("gemini response missing candidates")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", raw, errors.New("gemini response missing content")
	}

	var builder strings.Builder
	for _, part := range parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	return builder.String(), raw, nil
}

// ListGenerateModels возвращает модели, поддерживающие generateContent.
func (c *GeminiClient) ListGenerateModels(ctx context.Context) ([]ModelInfo, error) {
	out := make([]ModelInfo, 0)

	it := c.client.ListModels(ctx)
	for {
		model, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gemini models: %w", err)
		}

		if !supportsGenerateContent(model.SupportedGenerationMethods) {
			continue
		}
		out = append(out, ModelInfo{Name: model.Name, DisplayName: model.DisplayName})
	}

	return out, nil
}

func supportsGenerateContent(methods []string) bool {
	for _, method := range methods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}
