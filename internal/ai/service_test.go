package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeClient struct {
	content  string
	err      error
	messages []Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, []byte, error) {
	f.messages = messages
	return f.content, []byte(`{"raw":true}`), f.err
}

const validItinerary = `{"location_info":{"currency":"₹ (INR)","total_budget":"₹12,000","budget_breakdown":{"accommodation":"₹6,000","food":"₹3,000","transport":"₹1,500","activities":"₹1,500"},"weather_note":"Sunny, 28°C","language":"Kannada","rentals":[{"type":"Bike","name":"Royal Brothers"},{"type":"Scooter","name":"Vogo"},{"type":"Car","name":"ZoomCar"}]},"itinerary_text":"## Day 1..."}`

// TestGenerateItinerary проверяет разбор корректного ответа.
func TestGenerateItinerary(t *testing.T) {
	client := &fakeClient{content: "```json\n" + validItinerary + "\n```"}
	service := NewService(client)

	resp, prompt, raw, err := service.GenerateItinerary(context.Background(), ItineraryInput{From: "Bangalore", To: "Coorg", Days: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.ItineraryText != "## Day 1..." {
		t.Fatalf("unexpected itinerary: %q", resp.ItineraryText)
	}
	if !strings.HasPrefix(string(resp.LocationInfo), `{"currency":"₹ (INR)"`) {
		t.Fatalf("location_info changed: %s", resp.LocationInfo)
	}
	if !strings.Contains(prompt, "Bangalore to Coorg for 3 days") {
		t.Fatalf("prompt missing trip: %s", prompt)
	}
	if string(raw) != `{"raw":true}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
	if len(client.messages) != 2 || client.messages[1].Content != prompt {
		t.Fatalf("unexpected messages: %+v", client.messages)
	}
}

// TestGenerateItineraryNotJSON проверяет ошибку при ответе без JSON.
func TestGenerateItineraryNotJSON(t *testing.T) {
	service := NewService(&fakeClient{content: "not json"})

	_, _, _, err := service.GenerateItinerary(context.Background(), ItineraryInput{From: "A", To: "B", Days: 1})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

// TestGenerateItineraryClientError проверяет обертку ошибки клиента.
func TestGenerateItineraryClientError(t *testing.T) {
	service := NewService(&fakeClient{err: errors.New("boom")})

	_, _, _, err := service.GenerateItinerary(context.Background(), ItineraryInput{From: "A", To: "B", Days: 1})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

// TestGenerateItinerarySchema проверяет отказ при неполном location_info.
func TestGenerateItinerarySchema(t *testing.T) {
	cases := map[string]string{
		"missing itinerary":   `{"location_info":{"total_budget":"1","budget_breakdown":{"accommodation":"1","food":"1","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[{"type":"Bike","name":"X"}]}}`,
		"empty itinerary":     `{"location_info":{"total_budget":"1","budget_breakdown":{"accommodation":"1","food":"1","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[{"type":"Bike","name":"X"}]},"itinerary_text":"  "}`,
		"missing info":        `{"itinerary_text":"## Day 1"}`,
		"info not object":     `{"location_info":"text","itinerary_text":"## Day 1"}`,
		"missing breakdown":   `{"location_info":{"total_budget":"1","weather_note":"w","language":"l","rentals":[{"type":"Bike","name":"X"}]},"itinerary_text":"## Day 1"}`,
		"empty food":          `{"location_info":{"total_budget":"1","budget_breakdown":{"accommodation":"1","food":"","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[{"type":"Bike","name":"X"}]},"itinerary_text":"## Day 1"}`,
		"numeric budget":      `{"location_info":{"total_budget":12000,"budget_breakdown":{"accommodation":"1","food":"1","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[{"type":"Bike","name":"X"}]},"itinerary_text":"## Day 1"}`,
		"no rentals":          `{"location_info":{"total_budget":"1","budget_breakdown":{"accommodation":"1","food":"1","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[]},"itinerary_text":"## Day 1"}`,
		"rental without name": `{"location_info":{"total_budget":"1","budget_breakdown":{"accommodation":"1","food":"1","transport":"1","activities":"1"},"weather_note":"w","language":"l","rentals":[{"type":"Bike"}]},"itinerary_text":"## Day 1"}`,
	}

	for name, content := range cases {
		service := NewService(&fakeClient{content: content})
		_, _, _, err := service.GenerateItinerary(context.Background(), ItineraryInput{From: "A", To: "B", Days: 1})
		if !errors.Is(err, ErrGeneration) {
			t.Fatalf("%s: expected ErrGeneration, got %v", name, err)
		}
	}
}

// TestStripCodeFences проверяет удаление markdown-ограждений.
func TestStripCodeFences(t *testing.T) {
	if got := stripCodeFences("  ```json\n{\"a\":1}\n```  "); got != `{"a":1}` {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := stripCodeFences(`{"a":1}`); got != `{"a":1}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

// TestBuildItineraryPromptPriority проверяет список приоритетных прокатов.
func TestBuildItineraryPromptPriority(t *testing.T) {
	prompt := BuildItineraryPrompt(ItineraryInput{From: "Delhi", To: "Goa", Days: 5})

	for _, brand := range RentalPriority {
		if !strings.Contains(prompt, brand) {
			t.Fatalf("prompt missing %s", brand)
		}
	}
	if !strings.Contains(prompt, "exactly 3") || !strings.Contains(prompt, "\"itinerary_text\"") {
		t.Fatalf("prompt missing fixed instructions: %s", prompt)
	}
}

// TestSupportsGenerateContent проверяет фильтр моделей.
func TestSupportsGenerateContent(t *testing.T) {
	if !supportsGenerateContent([]string{"countTokens", "generateContent"}) {
		t.Fatal("expected generateContent to be supported")
	}
	if supportsGenerateContent([]string{"embedContent"}) {
		t.Fatal("expected embedContent only to be rejected")
	}
}
