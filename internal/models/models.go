package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Days хранит длительность поездки. Форма браузера отправляет число строкой,
// поэтому JSON принимает и число, и числовую строку.
type Days int

// UnmarshalJSON разбирает число или числовую строку.
func (d *Days) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = 0
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*d = 0
			return nil
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("days must be an integer: %w", err)
		}
		*d = Days(value)
		return nil
	}

	var value int
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("days must be an integer: %w", err)
	}
	*d = Days(value)
	return nil
}

// Trip описывает сохраненную поездку. LocationInfo хранится и отдается без изменений.
type Trip struct {
	ID           string          `json:"_id"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Days         Days            `json:"days"`
	Plan         string          `json:"plan"`
	Images       []string        `json:"images"`
	LocationInfo json.RawMessage `json:"location_info,omitempty"`
	UserEmail    string          `json:"userEmail,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PlanResult содержит результат генерации, еще не сохраненный.
type PlanResult struct {
	Plan         string          `json:"plan"`
	LocationInfo json.RawMessage `json:"location_info"`
	Images       []string        `json:"images"`
}

// NormalizeImages возвращает пустой список вместо nil.
func NormalizeImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
