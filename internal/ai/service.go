package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrGeneration означает, что модель не вернула пригодный маршрут.
var ErrGeneration = errors.New("itinerary generation failed")

// RentalPriority lists brands preferred for rentals in India.
var RentalPriority = []string{
	"Royal Brothers", "ONN Bikes", "Rentrip", "WheelOnRent", "TransRentals", "Thrillophilia",
	"Ontrack", "Zypp", "Vogo", "Bounce", "Stonehead Bikes", "Wheelstreet",
}

type Service struct {
	client   Client
	validate *validator.Validate
}

// NewService создает сервис работы с AI-клиентом.
func NewService(client Client) *Service {
	return &Service{client: client, validate: validator.New()}
}

// GenerateItinerary запрашивает у AI маршрут и проверяет форму ответа.
func (s *Service) GenerateItinerary(ctx context.Context, input ItineraryInput) (ItineraryResponse, string, []byte, error) {
	prompt := BuildItineraryPrompt(input)

	messages := []Message{
		{Role: "system", Content: "You are a budget-savvy travel agent. Respond with JSON only, without extra text."},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return ItineraryResponse{}, prompt, raw, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	response, err := s.parseItinerary(content)
	if err != nil {
		return ItineraryResponse{}, prompt, raw, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return response, prompt, raw, nil
}

// BuildItineraryPrompt собирает запрос к модели по параметрам поездки.
func BuildItineraryPrompt(input ItineraryInput) string {
	return fmt.Sprintf(`Act as a budget-savvy travel agent.
Trip: %[1]s to %[2]s for %[3]d days.

Requirements:
1. BUDGET: strictly middle-class. Calculate the TOTAL cost for %[3]d days and split it into accommodation, food, transport and activities.
2. OPTIMIZED ROUTE: order visits logically.
3. RENTALS: suggest exactly 3 top bike/car rental companies operating in %[2]s.
   - PRIORITY LIST (if in India, pick from these): %[4]s.
   - If these aren't available in the specific city, suggest locally popular, highly-rated alternatives.
4. Add a short weather note and the dominant local language.

Output strictly valid JSON, no code fences, no extra text:
{
  "location_info": {
    "currency": "e.g. ₹ (INR)",
    "total_budget": "e.g. ₹12,000 (Total for 3 days)",
    "budget_breakdown": {
      "accommodation": "e.g. ₹6,000",
      "food": "e.g. ₹3,000",
      "transport": "e.g. ₹1,500",
      "activities": "e.g. ₹1,500"
    },
    "weather_note": "e.g. Sunny, 28°C",
    "language": "e.g. Hindi/English",
    "rentals": [
      {"type": "Bike", "name": "Royal Brothers"},
      {"type": "Scooter", "name": "Vogo"},
      {"type": "Car", "name": "ZoomCar"}
    ]
  },
  "itinerary_text": "## Day 1..."
}`, input.From, input.To, input.Days, strings.Join(RentalPriority, ", "))
}

func (s *Service) parseItinerary(content string) (ItineraryResponse, error) {
	payload := stripCodeFences(content)
	if payload == "" {
		return ItineraryResponse{}, errors.New("ai response is empty")
	}

	var envelope itineraryEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return ItineraryResponse{}, fmt.Errorf("decode ai response: %w", err)
	}

	if envelope.ItineraryText == nil || strings.TrimSpace(*envelope.ItineraryText) == "" {
		return ItineraryResponse{}, errors.New("itinerary_text is required")
	}

	rawInfo := bytes.TrimSpace(envelope.LocationInfo)
	if len(rawInfo) == 0 || rawInfo[0] != '{' {
		return ItineraryResponse{}, errors.New("location_info must be an object")
	}

	var info LocationInfo
	if err := json.Unmarshal(rawInfo, &info); err != nil {
		return ItineraryResponse{}, fmt.Errorf("decode location_info: %w", err)
	}
	if err := s.validate.Struct(info); err != nil {
		return ItineraryResponse{}, fmt.Errorf("location_info: %w", err)
	}

	return ItineraryResponse{
		ItineraryText: *envelope.ItineraryText,
		LocationInfo:  json.RawMessage(rawInfo),
	}, nil
}

// stripCodeFences убирает markdown-ограждения ```json и ```.
func stripCodeFences(input string) string {
	cleaned := strings.ReplaceAll(input, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
