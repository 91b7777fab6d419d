package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/models"
)

const itineraryJSON = "```json\n" + `{"location_info":{"currency":"₹ (INR)","total_budget":"₹12,000","budget_breakdown":{"accommodation":"₹6,000","food":"₹3,000","transport":"₹1,500","activities":"₹1,500"},"weather_note":"Sunny","language":"Kannada","rentals":[{"type":"Bike","name":"Royal Brothers"},{"type":"Scooter","name":"Vogo"},{"type":"Car","name":"ZoomCar"}]},"itinerary_text":"## Day 1..."}` + "\n```"

type stubAI struct {
	content string
}

func (s stubAI) Chat(context.Context, []ai.Message) (string, []byte, error) {
	return s.content, nil, nil
}

type stubStore struct {
	mu    sync.Mutex
	trips []models.Trip
}

func (s *stubStore) Create(_ context.Context, trip models.Trip) (models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip.ID = uuid.NewString()
	trip.CreatedAt = time.Now().UTC()
	s.trips = append([]models.Trip{trip}, s.trips...)
	return trip, nil
}

func (s *stubStore) List(_ context.Context, owner string) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Trip, 0)
	for _, trip := range s.trips {
		if owner == "" || trip.UserEmail == owner {
			out = append(out, trip)
		}
	}
	return out, nil
}

func (s *stubStore) Delete(_ context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Trip, 0, len(s.trips))
	for _, trip := range s.trips {
		if trip.ID == id && (owner == "" || trip.UserEmail == owner) {
			continue
		}
		kept = append(kept, trip)
	}
	s.trips = kept
	return nil
}

func testConfig(secret string) config.Config {
	return config.Config{
		Database: config.DatabaseConfig{Driver: config.StoreDriverPostgres},
		Auth:     config.AuthConfig{JWTSecret: secret},
		AI: config.AIConfig{
			Provider:           "gemini",
			Model:              "gemini-2.5-flash",
			RateLimitPerMinute: 60,
			RateLimitBurst:     1,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestServer(secret string, store *stubStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testConfig(secret), logger, Deps{
		Trips:    store,
		AIClient: stubAI{content: itineraryJSON},
	})
}

func serve(handler http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestGeneratePlanRoute проверяет полный путь генерации маршрута.
func TestGeneratePlanRoute(t *testing.T) {
	handler := newTestServer("", &stubStore{})

	rec := serve(handler, http.MethodPost, "/api/generate-plan", `{"from":"Bangalore","to":"Coorg","days":3}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Plan         string          `json:"plan"`
		LocationInfo json.RawMessage `json:"location_info"`
		Images       []string        `json:"images"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Plan != "## Day 1..." || body.Images == nil || len(body.Images) != 0 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if !strings.HasPrefix(string(body.LocationInfo), `{"currency":"₹ (INR)"`) {
		t.Fatalf("unexpected location_info: %s", body.LocationInfo)
	}
}

// TestGeneratePlanRateLimited проверяет ответ 429 при превышении лимита.
func TestGeneratePlanRateLimited(t *testing.T) {
	handler := newTestServer("", &stubStore{})

	first := serve(handler, http.MethodPost, "/api/generate-plan", `{"from":"A","to":"B","days":1}`, "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := serve(handler, http.MethodPost, "/api/generate-plan", `{"from":"A","to":"B","days":1}`, "")
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}

// TestSecuredRoutes проверяет требование токена и изоляцию владельцев.
func TestSecuredRoutes(t *testing.T) {
	store := &stubStore{}
	handler := newTestServer("secret", store)
	verifier := auth.NewSessionVerifier("secret", "")

	rec := serve(handler, http.MethodGet, "/api/my-trips", "", "")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("expected 401 json error, got %d: %s", rec.Code, rec.Body.String())
	}

	alice, _, _ := verifier.Sign("alice@example.com", "", time.Hour)
	bob, _, _ := verifier.Sign("bob@example.com", "", time.Hour)

	rec = serve(handler, http.MethodPost, "/api/save-trip", `{"from":"A","to":"B","days":2,"plan":"p","location_info":{},"images":[],"userEmail":"bob@example.com"}`, alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &saved)

	rec = serve(handler, http.MethodGet, "/api/my-trips", "", bob)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("bob should not see alice's trips: %s", rec.Body.String())
	}

	rec = serve(handler, http.MethodDelete, "/api/trips/"+saved.ID, "", bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(handler, http.MethodGet, "/api/my-trips", "", alice)
	if !strings.Contains(rec.Body.String(), saved.ID) {
		t.Fatalf("alice's trip must survive bob's delete: %s", rec.Body.String())
	}
}

// TestHealthRoute проверяет доступность /health без токена.
func TestHealthRoute(t *testing.T) {
	handler := newTestServer("secret", &stubStore{})

	rec := serve(handler, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// TestCORSPreflight проверяет заголовки CORS для разрешенного источника.
func TestCORSPreflight(t *testing.T) {
	cfg := testConfig("")
	server := NewHTTPServer(cfg.Server, cfg.CORS, newTestServer("", &stubStore{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/my-trips", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected CORS headers: %v", rec.Header())
	}
}
