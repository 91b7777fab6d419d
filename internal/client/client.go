package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"example.com/ai-travel-planner/internal/models"
)

// APIError описывает ответ сервера с кодом ошибки и сообщением из поля error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New создает клиент HTTP API планировщика. Пустой token отключает заголовок Authorization.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type GenerateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

type SaveRequest struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Days         int             `json:"days"`
	Plan         string          `json:"plan"`
	LocationInfo json.RawMessage `json:"location_info,omitempty"`
	Images       []string        `json:"images"`
	UserEmail    string          `json:"userEmail,omitempty"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// GeneratePlan запрашивает новый маршрут.
func (c *Client) GeneratePlan(ctx context.Context, req GenerateRequest) (models.PlanResult, error) {
	var result models.PlanResult
	err := c.do(ctx, http.MethodPost, "/api/generate-plan", req, &result)
	return result, err
}

// SaveTrip сохраняет маршрут и возвращает присвоенный id.
func (c *Client) SaveTrip(ctx context.Context, req SaveRequest) (string, error) {
	req.Images = models.NormalizeImages(req.Images)

	var resp saveResponse
	if err := c.do(ctx, http.MethodPost, "/api/save-trip", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListTrips возвращает сохраненные поездки, новые первыми.
func (c *Client) ListTrips(ctx context.Context) ([]models.Trip, error) {
	trips := make([]models.Trip, 0)
	err := c.do(ctx, http.MethodGet, "/api/my-trips", nil, &trips)
	return trips, err
}

// DeleteTrip удаляет поездку по id.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/trips/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
